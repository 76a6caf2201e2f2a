/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package transport

import (
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"hdxscribe/pkg/spec"
)

type PauseState int

const (
	Playing PauseState = iota
	Paused
)

func (p PauseState) String() string {
	if p == Playing {
		return "Playing"
	}
	return "Paused"
}

// Audio is the part of the audio backend the transport drives.
// None of these calls may block on the transport lock.
type Audio interface {
	Start()
	Stop()
	SeekToFrame(frame int)
	SetRate(tempo float64)
	SetVolume(db float64)
}

// Renderer paints the screen. It is only ever called with the state lock held,
// so implementations need no locking of their own.
type Renderer interface {
	Draw(v View)
	DrawHelp()
}

// Song is the playback state of the loaded file.
type Song struct {
	Name       string
	SampleRate int
	Length     int64 // ms
	Position   int64 // ms
	Tempo      float64
	Pause      PauseState
	Ended      bool
	VolumeDB   float64
}

// View is an immutable snapshot handed to the renderer.
type View struct {
	Song     Song
	Marks    []int64
	Active   int
	Envelope []float64
	Mode     string
}

// HasActive reports whether a mark is selected.
func (v View) HasActive() bool { return v.Active != spec.NoActiveMark }

type Options struct {
	Name         string
	SampleRate   int
	Frames       int
	MarkCapacity int
	Audio        Audio
	Renderer     Renderer
	Log          logrus.FieldLogger
}

// State is the single owner of Song and Marks. Every exported mutator takes
// mu, applies its change and redraws before releasing it.
type State struct {
	mu       sync.Mutex
	song     Song
	marks    *Marks
	envelope []float64
	mode     string
	help     bool

	audio    Audio
	renderer Renderer
	log      logrus.FieldLogger

	quit     atomic.Bool
	done     chan struct{}
	quitOnce sync.Once
}

func New(opts Options) *State {
	length := int64(0)
	if opts.SampleRate > 0 && opts.Frames > 0 {
		length = int64(opts.Frames) * 1000 / int64(opts.SampleRate)
	}
	capacity := opts.MarkCapacity
	if capacity <= 0 {
		capacity = spec.MarkCapacity
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &State{
		song: Song{
			Name:       opts.Name,
			SampleRate: opts.SampleRate,
			Length:     length,
			Tempo:      spec.DefaultTempo,
			Pause:      Paused,
		},
		marks:    NewMarks(capacity),
		mode:     spec.DefaultMode,
		audio:    opts.Audio,
		renderer: opts.Renderer,
		log:      log,
		done:     make(chan struct{}),
	}
}

// ===============================
// Read side
// ===============================

// Snapshot returns a consistent copy of the current state.
func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *State) view() View {
	return View{
		Song:     s.song,
		Marks:    s.marks.Times(),
		Active:   s.marks.Active(),
		Envelope: s.envelope,
		Mode:     s.mode,
	}
}

func (s *State) HelpShown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.help
}

// redraw must be called with mu held.
func (s *State) redraw() {
	if s.renderer == nil || s.help {
		return
	}
	s.renderer.Draw(s.view())
}

// Redraw repaints the current view, e.g. after a terminal resize.
func (s *State) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.help {
		if s.renderer != nil {
			s.renderer.DrawHelp()
		}
		return
	}
	s.redraw()
}

// ===============================
// Transport mutators
// ===============================

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *State) frameOf(ms int64) int {
	return int(ms * int64(s.song.SampleRate) / 1000)
}

// Seek moves playback to target (ms), clamped to the song.
func (s *State) Seek(target int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(target)
	s.redraw()
}

// SeekBy moves playback by delta relative to the current position.
func (s *State) SeekBy(delta time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(s.song.Position + delta.Milliseconds())
	s.redraw()
}

// SeekToEnd moves playback to the last millisecond of the song.
func (s *State) SeekToEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(s.song.Length)
	s.redraw()
}

func (s *State) seekLocked(target int64) {
	target = clamp64(target, 0, s.song.Length)
	s.song.Position = target
	if target < s.song.Length {
		s.song.Ended = false
	}

	if s.audio != nil {
		if s.song.Pause == Playing {
			s.audio.Stop()
			s.audio.SeekToFrame(s.frameOf(target))
			s.audio.Start()
		} else {
			s.audio.SeekToFrame(s.frameOf(target))
		}
	}
	s.log.WithField("position_ms", target).Debug("seek")
}

// TogglePause flips between Playing and Paused. Resuming a finished song
// starts it again from the beginning.
func (s *State) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.song.Pause == Playing {
		s.song.Pause = Paused
		if s.audio != nil {
			s.audio.Stop()
		}
		s.mode = "Paused"
	} else {
		if s.song.Ended || s.song.Position >= s.song.Length {
			s.seekLocked(0)
		}
		s.song.Pause = Playing
		if s.audio != nil {
			s.audio.Start()
		}
		s.mode = "Playing"
	}
	s.log.WithField("state", s.song.Pause.String()).Debug("toggle pause")
	s.redraw()
}

// SetTempo sets the playback rate multiplier. Negative values clamp to 0.
// The backend scales the output sample rate, so pitch follows tempo.
func (s *State) SetTempo(tempo float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setTempoLocked(tempo)
	s.redraw()
}

// AdjustTempo adds delta to the current tempo.
func (s *State) AdjustTempo(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setTempoLocked(s.song.Tempo + delta)
	s.redraw()
}

func (s *State) setTempoLocked(tempo float64) {
	if tempo < 0 || math.IsNaN(tempo) {
		tempo = 0
	}
	// keep 0.1 steps from drifting into 0.30000000000000004
	tempo = math.Round(tempo*1000) / 1000
	s.song.Tempo = tempo
	if s.audio != nil {
		s.audio.SetRate(tempo)
	}
	s.log.WithField("tempo", tempo).Debug("tempo")
}

// AdjustVolume changes the output gain (log2 steps), clamped to the engine range.
func (s *State) AdjustVolume(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.song.VolumeDB + delta
	if v < spec.MinVolume {
		v = spec.MinVolume
	}
	if v > spec.MaxVolume {
		v = spec.MaxVolume
	}
	s.song.VolumeDB = v
	if s.audio != nil {
		s.audio.SetVolume(v)
	}
	s.redraw()
}

// Tick advances the position by d when playing. It reports whether the
// position moved. Reaching the end pauses the song instead of wrapping.
func (s *State) Tick(d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.song.Pause != Playing || s.help || s.song.Position > s.song.Length {
		return false
	}

	next := s.song.Position + d.Milliseconds()
	if next >= s.song.Length {
		s.song.Position = s.song.Length
		s.song.Pause = Paused
		s.song.Ended = true
		if s.audio != nil {
			s.audio.Stop()
		}
		s.mode = "Finished"
		s.log.WithField("length_ms", s.song.Length).Info("end of song")
	} else {
		s.song.Position = next
	}
	s.redraw()
	return true
}

// ===============================
// Mark mutators
// ===============================

// AddMark records the current position as a mark.
func (s *State) AddMark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addMarkLocked(s.song.Position)
}

// AddMarkAt records t (ms) as a mark.
func (s *State) AddMarkAt(t int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addMarkLocked(clamp64(t, 0, s.song.Length))
}

func (s *State) addMarkLocked(t int64) bool {
	if !s.marks.Add(t) {
		return false
	}
	s.mode = "Mark added"
	s.log.WithFields(logrus.Fields{"mark_ms": t, "count": s.marks.Len()}).Debug("mark added")
	s.redraw()
	return true
}

// NavigateMarks moves the active mark cursor by delta.
func (s *State) NavigateMarks(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.marks.Navigate(delta) {
		s.redraw()
	}
}

// DeleteMark removes the mark at index i.
func (s *State) DeleteMark(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.marks.Delete(i) {
		return false
	}
	s.mode = "Mark deleted"
	s.redraw()
	return true
}

// DeleteActiveMark removes the selected mark, if any.
func (s *State) DeleteActiveMark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.marks.HasActive() || !s.marks.Delete(s.marks.Active()) {
		return false
	}
	s.mode = "Mark deleted"
	s.redraw()
	return true
}

// JumpToMark seeks to the active mark.
func (s *State) JumpToMark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.marks.HasActive() {
		return false
	}
	s.seekLocked(s.marks.ActiveTime())
	s.redraw()
	return true
}

// ===============================
// Display state
// ===============================

// SetEnvelope installs the speech energy strip once analysis finishes.
func (s *State) SetEnvelope(env []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = env
	s.redraw()
}

// ShowHelp switches between the help screen and the main view.
func (s *State) ShowHelp(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.help = on
	if s.renderer == nil {
		return
	}
	if on {
		s.renderer.DrawHelp()
		return
	}
	s.redraw()
}

// ===============================
// Lifecycle
// ===============================

// Quit asks both loops to stop at their next check point.
func (s *State) Quit() {
	s.quitOnce.Do(func() {
		s.quit.Store(true)
		close(s.done)
		s.log.Info("quit requested")
	})
}

func (s *State) Quitting() bool        { return s.quit.Load() }
func (s *State) Done() <-chan struct{} { return s.done }
