/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"hdxscribe/internal/codec"
	"hdxscribe/pkg/spec"
)

// ======================================================
// Runtime audio handles (live control)
// ======================================================

// Engine plays one decoded source through the speaker:
//
//	loop -> ctrl (pause) -> resampler (tempo) -> volume -> speaker
//
// Tempo is applied by resampling, i.e. the output sample rate is scaled and
// pitch moves with it.
type Engine struct {
	src    *codec.Source
	loop   *loopStreamer
	ctrl   *beep.Ctrl
	rate   *beep.Resampler
	volume *effects.Volume

	// guards the beep handles above against the speaker goroutine
	lock sync.Locker
	log  logrus.FieldLogger

	started bool
	stalled bool // tempo 0
}

type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// New builds the streamer chain for src without touching the audio device.
func New(src *codec.Source, quality int, log logrus.FieldLogger) *Engine {
	if quality < 1 || quality > 64 {
		quality = spec.ResampleQuality
	}
	loop := newLoopStreamer(src.Streamer)
	ctrl := &beep.Ctrl{Streamer: loop, Paused: true}
	rate := beep.ResampleRatio(quality, 1.0, ctrl)
	vol := &effects.Volume{Streamer: rate, Base: 2, Volume: 0}

	return &Engine{
		src:    src,
		loop:   loop,
		ctrl:   ctrl,
		rate:   rate,
		volume: vol,
		lock:   speakerLock{},
		log:    log,
	}
}

// Open decodes path and starts feeding the speaker, paused.
func Open(path string, quality int, log logrus.FieldLogger) (*Engine, error) {
	src, err := codec.Open(path)
	if err != nil {
		return nil, err
	}
	e := New(src, quality, log)

	sr := src.Format.SampleRate
	if err := speaker.Init(sr, sr.N(spec.SpeakerBuffer)); err != nil {
		src.Close()
		return nil, errors.Wrap(err, "init speaker")
	}
	speaker.Play(e.Streamer())

	log.WithFields(logrus.Fields{
		"sample_rate": src.Info.Format.SampleRate,
		"channels":    src.Info.Format.NumChannels,
		"frames":      src.Info.Frames,
	}).Info("audio opened")
	return e, nil
}

// Streamer is the head of the chain handed to the speaker.
func (e *Engine) Streamer() beep.Streamer { return e.volume }

func (e *Engine) Info() codec.Info { return e.src.Info }

// Position is the frame the callback last read up to.
func (e *Engine) Position() int { return e.loop.position() }

func (e *Engine) applyPause() {
	e.lock.Lock()
	e.ctrl.Paused = !e.started || e.stalled
	e.lock.Unlock()
}

func (e *Engine) Start() {
	e.started = true
	e.applyPause()
}

func (e *Engine) Stop() {
	e.started = false
	e.applyPause()
}

// SeekToFrame hands the target to the callback without locking.
func (e *Engine) SeekToFrame(frame int) {
	e.loop.requestSeek(frame)
}

// SetRate scales the effective sample rate to base*tempo. A zero tempo holds
// the stream silent; the resampler cannot take a zero ratio.
func (e *Engine) SetRate(tempo float64) {
	if tempo <= 0 {
		e.stalled = true
		e.applyPause()
		return
	}
	e.lock.Lock()
	e.rate.SetRatio(tempo)
	e.lock.Unlock()
	if e.stalled {
		e.stalled = false
		e.applyPause()
	}
}

func (e *Engine) SetVolume(db float64) {
	e.lock.Lock()
	e.volume.Volume = db
	e.volume.Silent = db <= spec.MinVolume
	e.lock.Unlock()
}

// Close detaches from the speaker and releases the source.
func (e *Engine) Close() error {
	speaker.Clear()
	return e.src.Close()
}
