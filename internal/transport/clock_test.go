package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	c       chan time.Time
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()               { m.stopped = true }

func TestSynchronizerAdvancesUntilQuit(t *testing.T) {
	s, _, _ := newTestState()
	s.TogglePause()

	mt := &manualTicker{c: make(chan time.Time)}
	sy := NewSynchronizer(s, 100*time.Millisecond)
	sy.newTicker = func(time.Duration) Ticker { return mt }

	errc := make(chan error, 1)
	go func() { errc <- sy.Run() }()

	// unbuffered: each send returns once Run has taken the tick
	for i := 0; i < 6; i++ {
		mt.c <- time.Now()
	}
	s.Quit()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("synchronizer did not stop")
	}
	assert.True(t, mt.stopped)
	assert.Equal(t, int64(600), s.Snapshot().Song.Position)
}

func TestSynchronizerExitsWhenAlreadyQuit(t *testing.T) {
	s, _, _ := newTestState()
	s.Quit()
	sy := NewSynchronizer(s, 0)
	assert.Equal(t, 100*time.Millisecond, sy.interval)
	require.NoError(t, sy.Run())
}
