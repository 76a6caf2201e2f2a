package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdxscribe/pkg/spec"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, spec.MarkCapacity, c.Marks)
	assert.Equal(t, 100*time.Millisecond, c.Tick)
}

func TestBindParsesFlags(t *testing.T) {
	c := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.Bind(fs)

	err := fs.Parse([]string{
		"--seek-step=5s", "--marks", "10", "-l", "/tmp/x.log",
		"--tempo-step=0.25", "--no-envelope", "--paused",
	})
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, c.SeekStep)
	assert.Equal(t, 10, c.Marks)
	assert.Equal(t, "/tmp/x.log", c.LogFile)
	assert.Equal(t, 0.25, c.TempoStep)
	assert.True(t, c.NoEnvelope)
	assert.True(t, c.Paused)
	assert.Equal(t, spec.LongSeekStep, c.LongSeekStep, "untouched flags keep defaults")
	require.NoError(t, c.Validate())

	keys := c.Keys()
	assert.Equal(t, 5*time.Second, keys.SeekStep)
	assert.Equal(t, c.ChordWindow, keys.ChordWindow)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"bar width":   func(c *Config) { c.BarWidth = -1 },
		"tick":        func(c *Config) { c.Tick = 0 },
		"seek step":   func(c *Config) { c.SeekStep = -time.Second },
		"long seek":   func(c *Config) { c.LongSeekStep = 0 },
		"tempo step":  func(c *Config) { c.TempoStep = 0 },
		"volume step": func(c *Config) { c.VolumeStep = -1 },
		"marks":       func(c *Config) { c.Marks = 0 },
		"chord":       func(c *Config) { c.ChordWindow = 0 },
		"quality":     func(c *Config) { c.Quality = 65 },
		"log level":   func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
