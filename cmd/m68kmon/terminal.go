// terminal.go - Interactive and piped command input

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const prompt = "m68k> "

// isInteractive reports whether stdin and stdout are both terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// runInteractive reads commands with line editing and history until the
// monitor exits or input ends. The terminal is restored on return.
func runInteractive(m *Monitor) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("terminal: failed to set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, prompt)
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}

	for {
		line, err := t.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		exit := m.execute(line, func() error {
			// the view owns the terminal while it runs
			if err := term.Restore(fd, oldState); err != nil {
				return err
			}
			defer func() { _, _ = term.MakeRaw(fd) }()
			return RunView(m)
		})
		m.Flush(t, true)
		if exit {
			return nil
		}
	}
}

// runLines executes one command per input line, printing output as it
// goes.
func runLines(m *Monitor, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		exit := m.ExecuteCommand(sc.Text())
		m.Flush(w, false)
		if exit {
			return nil
		}
	}
	return sc.Err()
}

// execute runs line with view temporarily replaced.
func (m *Monitor) execute(line string, view func() error) bool {
	prev := m.view
	m.view = view
	defer func() { m.view = prev }()
	return m.ExecuteCommand(line)
}
