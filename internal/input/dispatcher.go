/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package input

import (
	"time"

	"github.com/sirupsen/logrus"

	"hdxscribe/pkg/spec"
)

// Transport is the set of operations keys map onto.
type Transport interface {
	Seek(target int64)
	SeekBy(delta time.Duration)
	SeekToEnd()
	TogglePause()
	SetTempo(tempo float64)
	AdjustTempo(delta float64)
	AdjustVolume(delta float64)
	AddMark() bool
	NavigateMarks(delta int)
	DeleteActiveMark() bool
	JumpToMark() bool
	ShowHelp(on bool)
	Redraw()
	Quit()
	Quitting() bool
}

type Settings struct {
	SeekStep     time.Duration
	LongSeekStep time.Duration
	TempoStep    float64
	VolumeStep   float64
	ChordWindow  time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		SeekStep:     spec.SeekStep,
		LongSeekStep: spec.LongSeekStep,
		TempoStep:    spec.TempoStep,
		VolumeStep:   spec.VolumeStep,
		ChordWindow:  spec.ChordWindow,
	}
}

type action func(d *Dispatcher)

var runeBindings = map[rune]action{
	'j': func(d *Dispatcher) { d.t.SeekBy(-d.cfg.SeekStep) },
	'k': func(d *Dispatcher) { d.t.SeekBy(d.cfg.SeekStep) },
	'J': func(d *Dispatcher) { d.t.SeekBy(-d.cfg.LongSeekStep) },
	'K': func(d *Dispatcher) { d.t.SeekBy(d.cfg.LongSeekStep) },
	'G': func(d *Dispatcher) { d.t.SeekToEnd() },
	' ': func(d *Dispatcher) { d.t.TogglePause() },
	'p': func(d *Dispatcher) { d.t.TogglePause() },
	'<': func(d *Dispatcher) { d.t.AdjustTempo(-d.cfg.TempoStep) },
	'>': func(d *Dispatcher) { d.t.AdjustTempo(d.cfg.TempoStep) },
	'=': func(d *Dispatcher) { d.t.SetTempo(spec.DefaultTempo) },
	'-': func(d *Dispatcher) { d.t.AdjustVolume(-d.cfg.VolumeStep) },
	'+': func(d *Dispatcher) { d.t.AdjustVolume(d.cfg.VolumeStep) },
	'm': func(d *Dispatcher) { d.t.AddMark() },
	'[': func(d *Dispatcher) { d.t.NavigateMarks(-1) },
	']': func(d *Dispatcher) { d.t.NavigateMarks(1) },
	'x': func(d *Dispatcher) { d.t.DeleteActiveMark() },
	'h': func(d *Dispatcher) { d.enterHelp() },
	'?': func(d *Dispatcher) { d.enterHelp() },
	'q': func(d *Dispatcher) { d.t.Quit() },
}

var codeBindings = map[Code]action{
	CodeLeft:   func(d *Dispatcher) { d.t.SeekBy(-d.cfg.SeekStep) },
	CodeRight:  func(d *Dispatcher) { d.t.SeekBy(d.cfg.SeekStep) },
	CodeEnter:  func(d *Dispatcher) { d.t.JumpToMark() },
	CodeDelete: func(d *Dispatcher) { d.t.DeleteActiveMark() },
}

// Dispatcher owns the foreground loop: one blocking key read at a time,
// mapped onto transport operations.
type Dispatcher struct {
	t     Transport
	cfg   Settings
	chord chord
	help  bool
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewDispatcher(t Transport, cfg Settings, log logrus.FieldLogger) *Dispatcher {
	if cfg.ChordWindow <= 0 {
		cfg.ChordWindow = spec.ChordWindow
	}
	return &Dispatcher{t: t, cfg: cfg, log: log, now: time.Now}
}

// Run reads keys until quit is requested or the source closes.
func (d *Dispatcher) Run(src KeySource) error {
	for !d.t.Quitting() {
		k, ok := src.ReadKey()
		if !ok {
			d.t.Quit()
			return nil
		}
		d.Handle(k)
	}
	return nil
}

// Handle dispatches a single key.
func (d *Dispatcher) Handle(k Key) {
	if k.When.IsZero() {
		k.When = d.now()
	}

	switch k.Code {
	case CodeInterrupt:
		return
	case CodeResize:
		d.t.Redraw()
		return
	case CodeCtrlC:
		d.t.Quit()
		return
	}

	// help is modal: any key closes it and is otherwise ignored
	if d.help {
		d.help = false
		d.t.ShowHelp(false)
		return
	}

	switch d.chord.feed(k, d.cfg.ChordWindow) {
	case chordStarted:
		return
	case chordCompleted:
		d.log.Debug("chord: seek to start")
		d.t.Seek(0)
		return
	}

	if k.Code == CodeRune {
		if a, ok := runeBindings[k.Rune]; ok {
			a(d)
		}
		return
	}
	if a, ok := codeBindings[k.Code]; ok {
		a(d)
	}
}

func (d *Dispatcher) enterHelp() {
	d.help = true
	d.t.ShowHelp(true)
}

// InHelp reports whether the help screen owns the keyboard.
func (d *Dispatcher) InHelp() bool { return d.help }
