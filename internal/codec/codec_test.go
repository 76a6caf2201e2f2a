package codec

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, rate, channels, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "take.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(8000 * math.Sin(float64(i)/10))
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

func TestProbeWAV(t *testing.T) {
	path := writeWAV(t, 8000, 2, 4000)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info, err := ProbeWAV(f)
	require.NoError(t, err)
	assert.Equal(t, 8000, info.Format.SampleRate)
	assert.Equal(t, 2, info.Format.NumChannels)
	assert.Equal(t, 4000, info.Frames)
}

func TestProbeWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff data"), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = ProbeWAV(f)
	assert.Error(t, err)
}

func TestOpenWAV(t *testing.T) {
	path := writeWAV(t, 8000, 1, 16000)
	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, beep.SampleRate(8000), src.Format.SampleRate)
	assert.Equal(t, 16000, src.Info.Frames)
	assert.Equal(t, 8000, src.Info.Format.SampleRate)
	assert.Equal(t, 1, src.Info.Format.NumChannels)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open("notes.txt")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Open(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(bad, []byte("RIFF...."), 0644))
	_, err = Open(bad)
	assert.Error(t, err)
}

func TestOpusChannels(t *testing.T) {
	head := append([]byte("OggS\x00\x02junkOpusHead\x01"), 2, 0x38, 0x01)
	ch, err := opusChannels(head)
	require.NoError(t, err)
	assert.Equal(t, 2, ch)

	_, err = opusChannels([]byte("OggS vorbis"))
	assert.Error(t, err)

	_, err = opusChannels(append([]byte("OpusHead\x01"), 6))
	assert.Error(t, err)
}

func TestToFramesMonoDuplicates(t *testing.T) {
	frames := toFrames([]int16{16384, -16384}, 1)
	require.Len(t, frames, 2)
	assert.Equal(t, [2]float64{0.5, 0.5}, frames[0])
	assert.Equal(t, [2]float64{-0.5, -0.5}, frames[1])
}

func tone(freq float64, rate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

func TestSpeechEnergyBand(t *testing.T) {
	in := SpeechEnergy(tone(1000, 16000, 1024), 16000)
	out := SpeechEnergy(tone(6000, 16000, 1024), 16000)
	assert.Greater(t, in, 100*out)
	assert.Equal(t, 0.0, SpeechEnergy(make([]float64, 1024), 16000))
}

func TestNormalize(t *testing.T) {
	n := Normalize([]float64{0, 10, 100})
	assert.Equal(t, 0.0, n[0])
	assert.Equal(t, 1.0, n[2])
	assert.True(t, n[1] > 0 && n[1] < 1)
	assert.Equal(t, []float64{0, 0}, Normalize([]float64{0, 0}))
}

func TestEnvelopeFindsSpeech(t *testing.T) {
	const rate = 8000
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	frames := make([][2]float64, 2*rate)
	for i, v := range tone(1000, rate, rate) {
		frames[rate+i] = [2]float64{v, v}
	}
	buf := beep.NewBuffer(format)
	ps := pcmStreamer(frames)
	buf.Append(&ps)

	env, err := Envelope(context.Background(), buf.Streamer(0, buf.Len()), rate, 8)
	require.NoError(t, err)
	require.Len(t, env, 8)
	assert.Equal(t, 0.0, env[0])
	assert.Equal(t, 0.0, env[1])
	assert.Equal(t, 0.0, env[2])
	assert.Greater(t, env[6], 0.5)
}

func TestEnvelopeCancelled(t *testing.T) {
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	buf := beep.NewBuffer(format)
	ps := pcmStreamer(make([][2]float64, 8000))
	buf.Append(&ps)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Envelope(ctx, buf.Streamer(0, buf.Len()), 8000, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
