// mapimage.go - PNG rendering of the page map

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/intuitionamiga/m68kmem"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	mapCell    = 8 // pixels per page cell
	mapCols    = 64
	mapLabelW  = 9*7 + 6 // "$XXXXXXXX" in Face7x13 plus margin
	mapHeaderH = 18
)

var mapColors = map[byte]color.RGBA{
	'a': {0x40, 0xC0, 0x40, 0xFF},
	'o': {0x40, 0x80, 0xE0, 0xFF},
	'X': {0x70, 0x70, 0x70, 0xFF},
	'S': {0xE0, 0x50, 0x50, 0xFF},
	'_': {0x18, 0x18, 0x18, 0xFF},
}

// WriteMapImage draws one cell per page, 64 pages per row, labelled with
// the row start address. Pages touched since the last heat reset get a
// white marker dot, filled for writes.
func WriteMapImage(w io.Writer, ctx *m68kmem.Context, heat *Heat) error {
	pageMap := ctx.PageMapString()
	rows := (len(pageMap) + mapCols - 1) / mapCols
	if rows > 4096 {
		return fmt.Errorf("page map of %d pages too large for an image", len(pageMap))
	}
	width := mapLabelW + mapCols*mapCell
	height := mapHeaderH + rows*mapCell + 2
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	d.Dot = fixed.P(2, 13)
	d.DrawString(fmt.Sprintf("%d pages of $%X bytes   a=RAM o=ROM X=empty S=special", len(pageMap), ctx.PageSize()))

	for i := range len(pageMap) {
		row, col := i/mapCols, i%mapCols
		y := mapHeaderH + row*mapCell
		if col == 0 && row%2 == 0 {
			d.Dot = fixed.P(2, y+11)
			d.DrawString(fmt.Sprintf("$%08X", uint64(i)<<ctx.PageShift()))
		}
		x := mapLabelW + col*mapCell
		cell := image.Rect(x, y, x+mapCell-1, y+mapCell-1)
		draw.Draw(img, cell, image.NewUniform(mapColors[pageMap[i]]), image.Point{}, draw.Src)

		reads, writes := heat.Page(uint32(i))
		if reads+writes == 0 {
			continue
		}
		dot := image.Rect(x+2, y+2, x+mapCell-3, y+mapCell-3)
		if writes == 0 {
			dot = image.Rect(x+3, y+3, x+mapCell-4, y+mapCell-4)
		}
		draw.Draw(img, dot, image.NewUniform(color.White), image.Point{}, draw.Src)
	}
	return png.Encode(w, img)
}
