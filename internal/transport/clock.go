/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package transport

import (
	"time"

	"hdxscribe/pkg/spec"
)

// Ticker is the slice of time.Ticker the synchronizer needs; tests swap in
// a manual one.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type wallTicker struct{ t *time.Ticker }

func (w wallTicker) C() <-chan time.Time { return w.t.C }
func (w wallTicker) Stop()               { w.t.Stop() }

// Synchronizer advances the song position in wall-clock time.
type Synchronizer struct {
	state     *State
	interval  time.Duration
	newTicker func(time.Duration) Ticker
}

func NewSynchronizer(s *State, interval time.Duration) *Synchronizer {
	if interval <= 0 {
		interval = spec.TickInterval
	}
	return &Synchronizer{
		state:    s,
		interval: interval,
		newTicker: func(d time.Duration) Ticker {
			return wallTicker{time.NewTicker(d)}
		},
	}
}

// Run ticks until the state is told to quit. The position advances by the
// interval regardless of tempo; tempo only changes the audio rate.
func (sy *Synchronizer) Run() error {
	t := sy.newTicker(sy.interval)
	defer t.Stop()

	for !sy.state.Quitting() {
		select {
		case <-sy.state.Done():
			return nil
		case <-t.C():
			sy.state.Tick(sy.interval)
		}
	}
	return nil
}
