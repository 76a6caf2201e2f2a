/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package render

import "hdxscribe/internal/transport"

// Terminal is the drawing side of the terminal backend. Rows and columns
// are 0-based.
type Terminal interface {
	Size() (cols, rows int)
	Clear()
	DrawText(row, col int, text string)
	DrawRune(row, col int, r rune)
	Show()
}

// Screen implements transport.Renderer. The transport calls it with its
// lock held, which keeps all terminal output on one goroutine at a time.
type Screen struct {
	term     Terminal
	barWidth int
}

func NewScreen(term Terminal, barWidth int) *Screen {
	return &Screen{term: term, barWidth: barWidth}
}

var _ transport.Renderer = (*Screen)(nil)

func (s *Screen) layout() Layout {
	cols, rows := s.term.Size()
	return Layout{Cols: cols, Rows: rows, BarWidth: s.barWidth}
}

func (s *Screen) Draw(v transport.View) {
	s.paint(Project(v, s.layout()))
}

func (s *Screen) DrawHelp() {
	s.paint(ProjectHelp(s.layout()))
}

func (s *Screen) paint(f Frame) {
	s.term.Clear()
	for _, l := range f.Lines {
		s.term.DrawText(l.Row, l.Col, l.Text)
	}
	for _, c := range f.Cells {
		s.term.DrawRune(c.Row, c.Col, c.Rune)
	}
	s.term.Show()
}
