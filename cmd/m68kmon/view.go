// view.go - Full-screen page heat view

package main

import (
	"fmt"

	"github.com/gdamore/tcell"
)

const (
	viewCols    = 64 // pages per grid row
	viewDumpLen = 128
)

// heatView is the state of one view session.
type heatView struct {
	m      *Monitor
	cursor uint32 // selected page
	top    uint32 // first grid row on screen
}

// RunView shows the page map coloured by access heat until q, Esc or
// Ctrl-C is pressed.
func RunView(m *Monitor) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("opening screen: %w", err)
	}
	defer s.Fini()
	(&heatView{m: m}).run(s)
	return nil
}

func (v *heatView) run(s tcell.Screen) {
	numPages := v.m.ctx.NumPages()
	for {
		v.draw(s)
		s.Show()

		switch e := s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			switch e.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return
			case tcell.KeyLeft:
				v.move(-1, numPages)
			case tcell.KeyRight:
				v.move(1, numPages)
			case tcell.KeyUp:
				v.move(-viewCols, numPages)
			case tcell.KeyDown:
				v.move(viewCols, numPages)
			case tcell.KeyPgUp:
				v.move(-viewCols*8, numPages)
			case tcell.KeyPgDn:
				v.move(viewCols*8, numPages)
			case tcell.KeyRune:
				switch e.Rune() {
				case 'q':
					return
				case 'r':
					v.m.heat.Reset()
				}
			}
		}
	}
}

func (v *heatView) move(delta int, numPages uint32) {
	p := int64(v.cursor) + int64(delta)
	p = max(0, min(p, int64(numPages)-1))
	v.cursor = uint32(p)
}

// heatStyle colours like the RAM box of a front panel: green read, red
// written, yellow both, gray untouched.
func heatStyle(reads, writes uint64) tcell.Style {
	switch {
	case writes == 0 && reads > 0:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case reads == 0 && writes > 0:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case reads > 0 && writes > 0:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorGray)
}

func (v *heatView) draw(s tcell.Screen) {
	s.Clear()
	_, height := s.Size()
	ctx := v.m.ctx
	pageMap := ctx.PageMapString()
	rows := (uint32(len(pageMap)) + viewCols - 1) / viewCols

	// grid box takes what the dump box and status line leave
	visible := uint32(max(height-16, 3))
	visible = min(visible, rows)
	row := v.cursor / viewCols
	if row < v.top {
		v.top = row
	}
	if row >= v.top+visible {
		v.top = row - visible + 1
	}

	box(s, 1, 0, viewCols+12, int(visible)+1)
	drawString(s, 4, 0, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true), " PAGES ")
	for r := range visible {
		first := (v.top + r) * viewCols
		if first >= uint32(len(pageMap)) {
			break
		}
		y := int(r) + 1
		drawString(s, 3, y, tcell.StyleDefault.Foreground(tcell.ColorWhite), fmt.Sprintf("$%08X", uint64(first)<<ctx.PageShift()))
		for c := range uint32(viewCols) {
			p := first + c
			if p >= uint32(len(pageMap)) {
				break
			}
			style := heatStyle(v.m.heat.Page(p))
			if p == v.cursor {
				style = style.Reverse(true)
			}
			s.SetContent(13+int(c), y, rune(pageMap[p]), nil, style)
		}
	}

	v.drawDump(s, 1, int(visible)+2)

	reads, writes := v.m.heat.Page(v.cursor)
	status := fmt.Sprintf("page $%X %s  R:%d W:%d   arrows move  r reset  q quit",
		v.cursor, ctx.PageKind(v.cursor), reads, writes)
	drawString(s, 2, int(visible)+14, tcell.StyleDefault.Foreground(tcell.ColorWhite), status)
}

// drawDump shows the first bytes of the selected page.
func (v *heatView) drawDump(s tcell.Screen, x, y int) {
	box(s, x, y, 57+13, 11)
	addr := uint32(uint64(v.cursor) << v.m.ctx.PageShift())
	drawString(s, x+4, y, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true), fmt.Sprintf(" $%08X ", addr))
	colhead := "x0 x1 x2 x3 x4 x5 x6 x7  x8 x9 xA xB xC xD xE xF"
	drawString(s, x+12, y+2, tcell.StyleDefault.Foreground(tcell.ColorWhite).Underline(true), colhead)

	style := heatStyle(v.m.heat.Page(v.cursor))
	data := v.m.ctx.ReadBytes(addr, min(viewDumpLen, v.m.ctx.PageSize()))
	for i, b := range data {
		row, low := i/16, i%16
		if low == 0 {
			drawString(s, x+2, y+3+row, tcell.StyleDefault.Foreground(tcell.ColorWhite), fmt.Sprintf("$%08X", addr+uint32(i)))
		}
		col := x + 12 + low*3
		if low >= 8 {
			col++
		}
		drawString(s, col, y+3+row, style, fmt.Sprintf("%02X", b))
	}
}

func drawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, c := range str {
		s.SetContent(x, y, c, nil, style)
		x++
	}
}

func box(s tcell.Screen, x, y, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, y+h, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w, y+h, tcell.RuneLRCorner, nil, style)
	for col := x + 1; col < x+w; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.SetContent(col, y+h, tcell.RuneHLine, nil, style)
	}
	for row := y + 1; row < y+h; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.SetContent(x+w, row, tcell.RuneVLine, nil, style)
	}
}
