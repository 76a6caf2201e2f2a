/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"hdxscribe/internal/input"
)

// ======================================================
// Terminal session (raw mode, hidden cursor)
// ======================================================

// Terminal owns the tty for the lifetime of a session: unbuffered, no echo,
// cursor hidden. It is both the drawing surface and the key source.
type Terminal struct {
	screen tcell.Screen
	style  tcell.Style
	once   sync.Once
}

// Init puts the controlling terminal into raw mode.
func Init() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "open terminal")
	}
	return initScreen(s)
}

func initScreen(s tcell.Screen) (*Terminal, error) {
	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, "init terminal")
	}
	s.HideCursor()
	s.DisableMouse()
	s.Clear()
	return &Terminal{screen: s, style: tcell.StyleDefault}, nil
}

// Cleanup restores the terminal. Safe to call more than once.
func (t *Terminal) Cleanup() {
	t.once.Do(func() {
		t.screen.Clear()
		t.screen.Show()
		t.screen.Fini()
	})
}

// Interrupt wakes a blocked ReadKey.
func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (t *Terminal) Size() (cols, rows int) { return t.screen.Size() }

func (t *Terminal) Clear() { t.screen.Clear() }

// DrawText writes text starting at (row, col), both 0-based. Wide runes take
// two cells.
func (t *Terminal) DrawText(row, col int, text string) {
	x := col
	for _, r := range text {
		t.screen.SetContent(x, row, r, nil, t.style)
		x += runewidth.RuneWidth(r)
	}
}

func (t *Terminal) DrawRune(row, col int, r rune) {
	t.screen.SetContent(col, row, r, nil, t.style)
}

func (t *Terminal) Show() { t.screen.Show() }

// ======================================================
// Keys
// ======================================================

// ReadKey blocks for the next event the dispatcher cares about. It returns
// ok=false once the screen has been finalized.
func (t *Terminal) ReadKey() (input.Key, bool) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return input.Key{}, false
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			return translate(ev), true
		case *tcell.EventResize:
			t.screen.Sync()
			return input.Key{Code: input.CodeResize, When: ev.When()}, true
		case *tcell.EventInterrupt:
			return input.Key{Code: input.CodeInterrupt, When: ev.When()}, true
		}
	}
}

func translate(ev *tcell.EventKey) input.Key {
	k := input.Key{When: ev.When()}
	switch ev.Key() {
	case tcell.KeyRune:
		k.Code = input.CodeRune
		k.Rune = ev.Rune()
	case tcell.KeyEnter:
		k.Code = input.CodeEnter
	case tcell.KeyLeft:
		k.Code = input.CodeLeft
	case tcell.KeyRight:
		k.Code = input.CodeRight
	case tcell.KeyDelete:
		k.Code = input.CodeDelete
	case tcell.KeyEscape:
		k.Code = input.CodeEscape
	case tcell.KeyCtrlC:
		k.Code = input.CodeCtrlC
	default:
		k.Code = input.CodeOther
	}
	return k
}
