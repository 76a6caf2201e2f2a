package input

import "time"

// Code classifies a key event independently of the terminal library.
type Code int

const (
	CodeRune Code = iota
	CodeEnter
	CodeLeft
	CodeRight
	CodeDelete
	CodeEscape
	CodeCtrlC
	CodeResize
	CodeInterrupt
	CodeOther
)

// Key is one input event. When is the time the terminal saw it.
type Key struct {
	Code Code
	Rune rune
	When time.Time
}

func Rune(r rune, when time.Time) Key { return Key{Code: CodeRune, Rune: r, When: when} }

// KeySource blocks until the next key. ok is false once input is closed.
type KeySource interface {
	ReadKey() (k Key, ok bool)
}
