package input

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	calls    []string
	quitting bool
}

func (f *fakeTransport) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeTransport) Seek(target int64)          { f.record("seek %d", target) }
func (f *fakeTransport) SeekBy(delta time.Duration) { f.record("seekby %s", delta) }
func (f *fakeTransport) SeekToEnd()                 { f.record("end") }
func (f *fakeTransport) TogglePause()               { f.record("toggle") }
func (f *fakeTransport) SetTempo(t float64)         { f.record("tempo %.1f", t) }
func (f *fakeTransport) AdjustTempo(d float64)      { f.record("tempo %+.1f", d) }
func (f *fakeTransport) AdjustVolume(d float64)     { f.record("volume %+.1f", d) }
func (f *fakeTransport) AddMark() bool              { f.record("mark"); return true }
func (f *fakeTransport) NavigateMarks(d int)        { f.record("nav %d", d) }
func (f *fakeTransport) DeleteActiveMark() bool     { f.record("delete"); return true }
func (f *fakeTransport) JumpToMark() bool           { f.record("jump"); return true }
func (f *fakeTransport) ShowHelp(on bool)           { f.record("help %v", on) }
func (f *fakeTransport) Redraw()                    { f.record("redraw") }
func (f *fakeTransport) Quit()                      { f.record("quit"); f.quitting = true }
func (f *fakeTransport) Quitting() bool             { return f.quitting }

type scriptedSource struct{ keys []Key }

func (s *scriptedSource) ReadKey() (Key, bool) {
	if len(s.keys) == 0 {
		return Key{}, false
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, true
}

func newTestDispatcher() (*Dispatcher, *fakeTransport) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	ft := &fakeTransport{}
	return NewDispatcher(ft, DefaultSettings(), log), ft
}

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func TestKeyTable(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{Rune('j', t0), "seekby -2s"},
		{Rune('k', t0), "seekby 2s"},
		{Key{Code: CodeLeft, When: t0}, "seekby -2s"},
		{Key{Code: CodeRight, When: t0}, "seekby 2s"},
		{Rune('J', t0), "seekby -10s"},
		{Rune('K', t0), "seekby 10s"},
		{Rune('G', t0), "end"},
		{Rune(' ', t0), "toggle"},
		{Rune('p', t0), "toggle"},
		{Rune('<', t0), "tempo -0.1"},
		{Rune('>', t0), "tempo +0.1"},
		{Rune('=', t0), "tempo 1.0"},
		{Rune('-', t0), "volume -0.5"},
		{Rune('+', t0), "volume +0.5"},
		{Rune('m', t0), "mark"},
		{Rune('[', t0), "nav -1"},
		{Rune(']', t0), "nav 1"},
		{Key{Code: CodeEnter, When: t0}, "jump"},
		{Rune('x', t0), "delete"},
		{Key{Code: CodeDelete, When: t0}, "delete"},
		{Rune('q', t0), "quit"},
		{Key{Code: CodeCtrlC, When: t0}, "quit"},
		{Key{Code: CodeResize, When: t0}, "redraw"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			d, ft := newTestDispatcher()
			d.Handle(tc.key)
			assert.Equal(t, []string{tc.want}, ft.calls)
		})
	}
}

func TestUnboundKeysAreIgnored(t *testing.T) {
	d, ft := newTestDispatcher()
	d.Handle(Rune('z', t0))
	d.Handle(Key{Code: CodeOther, When: t0})
	d.Handle(Key{Code: CodeInterrupt, When: t0})
	assert.Empty(t, ft.calls)
}

func TestChord(t *testing.T) {
	t.Run("within window seeks to start", func(t *testing.T) {
		d, ft := newTestDispatcher()
		d.Handle(Rune('g', at(0)))
		assert.Empty(t, ft.calls, "prefix alone does nothing")
		d.Handle(Rune('g', at(499)))
		assert.Equal(t, []string{"seek 0"}, ft.calls)
	})

	t.Run("late second key restarts the chord", func(t *testing.T) {
		d, ft := newTestDispatcher()
		d.Handle(Rune('g', at(0)))
		d.Handle(Rune('g', at(600)))
		assert.Empty(t, ft.calls)
		d.Handle(Rune('g', at(900)))
		assert.Equal(t, []string{"seek 0"}, ft.calls)
	})

	t.Run("other key cancels and is handled", func(t *testing.T) {
		d, ft := newTestDispatcher()
		d.Handle(Rune('g', at(0)))
		d.Handle(Rune('k', at(100)))
		d.Handle(Rune('g', at(200)))
		assert.Equal(t, []string{"seekby 2s"}, ft.calls)
	})

	t.Run("three presses fire once", func(t *testing.T) {
		d, ft := newTestDispatcher()
		d.Handle(Rune('g', at(0)))
		d.Handle(Rune('g', at(100)))
		d.Handle(Rune('g', at(200)))
		assert.Equal(t, []string{"seek 0"}, ft.calls)
	})
}

func TestHelpIsModal(t *testing.T) {
	d, ft := newTestDispatcher()
	d.Handle(Rune('h', t0))
	require.True(t, d.InHelp())

	d.Handle(Rune('q', t0))
	assert.False(t, d.InHelp())
	assert.False(t, ft.quitting, "key that closes help is swallowed")
	assert.Equal(t, []string{"help true", "help false"}, ft.calls)

	d.Handle(Rune('?', t0))
	d.Handle(Key{Code: CodeResize, When: t0})
	assert.True(t, d.InHelp(), "resize does not close help")
	d.Handle(Key{Code: CodeCtrlC, When: t0})
	assert.True(t, ft.quitting)
}

func TestRunStopsOnQuit(t *testing.T) {
	d, ft := newTestDispatcher()
	src := &scriptedSource{keys: []Key{Rune('k', t0), Rune('q', t0), Rune('j', t0)}}
	require.NoError(t, d.Run(src))
	assert.Equal(t, []string{"seekby 2s", "quit"}, ft.calls)
	assert.Len(t, src.keys, 1)
}

func TestRunQuitsWhenInputCloses(t *testing.T) {
	d, ft := newTestDispatcher()
	require.NoError(t, d.Run(&scriptedSource{}))
	assert.True(t, ft.quitting)
}

func TestZeroTimestampUsesClock(t *testing.T) {
	d, ft := newTestDispatcher()
	now := t0
	d.now = func() time.Time { return now }
	d.Handle(Key{Code: CodeRune, Rune: 'g'})
	now = now.Add(100 * time.Millisecond)
	d.Handle(Key{Code: CodeRune, Rune: 'g'})
	assert.Equal(t, []string{"seek 0"}, ft.calls)
}
