/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"hdxscribe/internal/codec"
	"hdxscribe/internal/config"
	"hdxscribe/internal/input"
	"hdxscribe/internal/logging"
	"hdxscribe/internal/render"
	"hdxscribe/internal/terminal"
	"hdxscribe/internal/transport"
	"hdxscribe/pkg/audioengine"
	"hdxscribe/pkg/spec"
)

// run opens everything that can fail before the terminal is taken over, then
// drives the session until quit.
func run(ctx context.Context, cfg config.Config, path string) error {
	session, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer session.Close()
	log := session.WithField("file", filepath.Base(path))

	engine, err := audioengine.Open(path, cfg.Quality, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	term, err := terminal.Init()
	if err != nil {
		return err
	}
	defer term.Cleanup()

	info := engine.Info()
	state := transport.New(transport.Options{
		Name:         filepath.Base(path),
		SampleRate:   info.Format.SampleRate,
		Frames:       info.Frames,
		MarkCapacity: cfg.Marks,
		Audio:        engine,
		Renderer:     render.NewScreen(term, cfg.BarWidth),
		Log:          log,
	})

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.WithField("signal", sig).Info("signal received")
			state.Quit()
			term.Interrupt()
		case <-state.Done():
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(transport.NewSynchronizer(state, cfg.Tick).Run)
	g.Go(func() error {
		return input.NewDispatcher(state, cfg.Keys(), log).Run(term)
	})
	g.Go(func() error {
		<-state.Done()
		cancel()
		return nil
	})
	if !cfg.NoEnvelope {
		g.Go(func() error {
			loadEnvelope(gctx, path, state, log)
			return nil
		})
	}

	state.Redraw()
	if !cfg.Paused {
		state.TogglePause()
	}

	err = g.Wait()
	log.WithField("position_ms", state.Snapshot().Song.Position).Info("session closed")
	return err
}

// loadEnvelope analyses a second decoder of the file so the stream feeding
// the speaker is never moved. Failures only cost the energy strip.
func loadEnvelope(ctx context.Context, path string, state *transport.State, log logrus.FieldLogger) {
	src, err := codec.Open(path)
	if err != nil {
		log.WithError(err).Warn("envelope: open")
		return
	}
	defer src.Close()

	env, err := codec.Envelope(ctx, src.Streamer, int(src.Format.SampleRate), spec.EnvelopeBins)
	if err != nil {
		if ctx.Err() == nil {
			log.WithError(err).Warn("envelope: analyse")
		}
		return
	}
	log.WithField("bins", len(env)).Debug("envelope ready")
	state.SetEnvelope(env)
}
