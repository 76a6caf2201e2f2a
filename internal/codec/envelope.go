/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package codec

import (
	"context"
	"math"

	"github.com/faiface/beep"
	"github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"
)

const (
	fftSize       = 1024
	windowsPerBin = 4
	speechLowHz   = 300.0
	speechHighHz  = 3400.0
)

// SpeechEnergy is the power of window inside the telephone speech band.
func SpeechEnergy(window []float64, sampleRate int) float64 {
	n := len(window)
	if n == 0 || sampleRate <= 0 {
		return 0
	}
	// Hann window to keep out-of-band tones from leaking in
	w := make([]float64, n)
	for i, v := range window {
		w[i] = v * 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	coeffs := fft.FFTReal(w)

	lo := int(speechLowHz * float64(n) / float64(sampleRate))
	hi := int(speechHighHz * float64(n) / float64(sampleRate))
	if hi > n/2 {
		hi = n / 2
	}
	var sum float64
	for k := lo; k <= hi; k++ {
		re, im := real(coeffs[k]), imag(coeffs[k])
		sum += re*re + im*im
	}
	return sum / float64(n)
}

// Normalize log-compresses values and scales them into 0..1.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	max := 0.0
	for i, v := range values {
		out[i] = math.Log1p(math.Max(v, 0))
		max = math.Max(max, out[i])
	}
	if max == 0 {
		return out
	}
	for i := range out {
		out[i] /= max
	}
	return out
}

// Envelope samples bins evenly spaced regions of s and returns their
// normalized speech energy. It moves the stream position; callers hand it
// a stream of its own, never the one feeding the speaker.
func Envelope(ctx context.Context, s beep.StreamSeeker, sampleRate, bins int) ([]float64, error) {
	total := s.Len()
	if bins <= 0 || total <= 0 {
		return nil, nil
	}

	raw := make([]float64, bins)
	frames := make([][2]float64, fftSize)
	mono := make([]float64, fftSize)

	for b := 0; b < bins; b++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := b * total / bins
		end := (b + 1) * total / bins

		var sum float64
		for k := 0; k < windowsPerBin; k++ {
			pos := start + k*(end-start)/windowsPerBin
			if pos+fftSize > total {
				pos = total - fftSize
			}
			if pos < 0 {
				pos = 0
			}
			if err := s.Seek(pos); err != nil {
				return nil, errors.Wrap(err, "envelope seek")
			}
			n := readFull(s, frames)
			for i := range mono {
				mono[i] = 0
				if i < n {
					mono[i] = (frames[i][0] + frames[i][1]) / 2
				}
			}
			sum += SpeechEnergy(mono, sampleRate)
		}
		raw[b] = sum / windowsPerBin
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "envelope read")
	}
	return Normalize(raw), nil
}

func readFull(s beep.Streamer, buf [][2]float64) int {
	filled := 0
	for filled < len(buf) {
		n, ok := s.Stream(buf[filled:])
		filled += n
		if !ok || n == 0 {
			break
		}
	}
	return filled
}
