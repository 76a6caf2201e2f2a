/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"sync/atomic"

	"github.com/faiface/beep"
)

// loopStreamer reads its source sequentially and starts over at the end.
// Stream runs on the speaker goroutine; the rest of the program talks to it
// only through the two atomics, so frame production never waits on the UI.
type loopStreamer struct {
	src    beep.StreamSeeker
	cursor atomic.Int64
	seek   atomic.Int64 // pending seek target, -1 when none
	err    error
}

func newLoopStreamer(src beep.StreamSeeker) *loopStreamer {
	l := &loopStreamer{src: src}
	l.seek.Store(-1)
	return l
}

// requestSeek is picked up by the next Stream call.
func (l *loopStreamer) requestSeek(frame int) {
	if max := l.src.Len() - 1; frame > max {
		frame = max
	}
	if frame < 0 {
		frame = 0
	}
	l.seek.Store(int64(frame))
}

func (l *loopStreamer) position() int { return int(l.cursor.Load()) }

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	if target := l.seek.Swap(-1); target >= 0 {
		if err := l.src.Seek(int(target)); err != nil {
			l.err = err
		}
	}

	filled := 0
	empty := 0
	for filled < len(samples) && empty < 2 {
		n, ok := l.src.Stream(samples[filled:])
		filled += n
		if n > 0 {
			empty = 0
		} else {
			empty++
		}
		if !ok || n == 0 {
			if err := l.src.Seek(0); err != nil {
				l.err = err
				break
			}
		}
	}

	// an empty or broken source plays silence instead of dropping out of the mixer
	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	l.cursor.Store(int64(l.src.Position()))
	return len(samples), true
}

func (l *loopStreamer) Err() error { return l.err }
