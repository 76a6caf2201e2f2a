package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"hdxscribe/internal/input"
	"hdxscribe/pkg/spec"
)

// Config holds the runtime knobs of a session. Zero values are not valid;
// start from Default.
type Config struct {
	BarWidth     int
	Tick         time.Duration
	SeekStep     time.Duration
	LongSeekStep time.Duration
	TempoStep    float64
	VolumeStep   float64
	Marks        int
	ChordWindow  time.Duration
	Quality      int
	LogFile      string
	LogLevel     string
	NoEnvelope   bool
	Paused       bool
}

func Default() Config {
	return Config{
		BarWidth:     0, // half the terminal
		Tick:         spec.TickInterval,
		SeekStep:     spec.SeekStep,
		LongSeekStep: spec.LongSeekStep,
		TempoStep:    spec.TempoStep,
		VolumeStep:   spec.VolumeStep,
		Marks:        spec.MarkCapacity,
		ChordWindow:  spec.ChordWindow,
		Quality:      spec.ResampleQuality,
		LogLevel:     "info",
	}
}

// Bind registers every field on fs with its current value as default.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&c.BarWidth, "bar-width", c.BarWidth, "progress bar width in cells (0 = half the terminal)")
	fs.DurationVar(&c.Tick, "tick", c.Tick, "position refresh interval")
	fs.DurationVar(&c.SeekStep, "seek-step", c.SeekStep, "seek distance for j/k")
	fs.DurationVar(&c.LongSeekStep, "long-seek-step", c.LongSeekStep, "seek distance for J/K")
	fs.Float64Var(&c.TempoStep, "tempo-step", c.TempoStep, "tempo change for < and >")
	fs.Float64Var(&c.VolumeStep, "volume-step", c.VolumeStep, "volume change for - and +")
	fs.IntVar(&c.Marks, "marks", c.Marks, "maximum number of marks")
	fs.DurationVar(&c.ChordWindow, "chord-window", c.ChordWindow, "time allowed between the two keys of gg")
	fs.IntVar(&c.Quality, "quality", c.Quality, "resampler quality (1-64)")
	fs.StringVarP(&c.LogFile, "log", "l", c.LogFile, "write logs to the given file (empty disables)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (trace, debug, info, warn, error)")
	fs.BoolVar(&c.NoEnvelope, "no-envelope", c.NoEnvelope, "skip the speech energy strip")
	fs.BoolVar(&c.Paused, "paused", c.Paused, "start paused instead of playing")
}

func (c Config) Validate() error {
	switch {
	case c.BarWidth < 0:
		return errors.Errorf("bar-width must be >= 0, got %d", c.BarWidth)
	case c.Tick <= 0:
		return errors.Errorf("tick must be positive, got %s", c.Tick)
	case c.SeekStep <= 0:
		return errors.Errorf("seek-step must be positive, got %s", c.SeekStep)
	case c.LongSeekStep <= 0:
		return errors.Errorf("long-seek-step must be positive, got %s", c.LongSeekStep)
	case c.TempoStep <= 0:
		return errors.Errorf("tempo-step must be positive, got %g", c.TempoStep)
	case c.VolumeStep <= 0:
		return errors.Errorf("volume-step must be positive, got %g", c.VolumeStep)
	case c.Marks < 1:
		return errors.Errorf("marks must be at least 1, got %d", c.Marks)
	case c.ChordWindow <= 0:
		return errors.Errorf("chord-window must be positive, got %s", c.ChordWindow)
	case c.Quality < 1 || c.Quality > 64:
		return errors.Errorf("quality must be in 1..64, got %d", c.Quality)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log-level")
	}
	return nil
}

// Keys returns the dispatcher settings.
func (c Config) Keys() input.Settings {
	return input.Settings{
		SeekStep:     c.SeekStep,
		LongSeekStep: c.LongSeekStep,
		TempoStep:    c.TempoStep,
		VolumeStep:   c.VolumeStep,
		ChordWindow:  c.ChordWindow,
	}
}
