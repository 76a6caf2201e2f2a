/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package codec

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/go-audio/audio"
	"github.com/pkg/errors"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Info is what the transport needs to know about a file.
type Info struct {
	Format audio.Format
	Frames int
}

// Source is a decoded, seekable stream plus its description.
type Source struct {
	Streamer beep.StreamSeekCloser
	Format   beep.Format
	Info     Info
}

func (s *Source) Close() error { return s.Streamer.Close() }

// Supported lists the file extensions Open understands.
var Supported = []string{".wav", ".mp3", ".flac", ".ogg", ".oga", ".opus"}

// Open decodes path based on its extension.
func Open(path string) (*Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !isSupported(ext) {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q (want one of %s)", ext, strings.Join(Supported, " "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open audio")
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case ".wav":
		if _, err = ProbeWAV(f); err == nil {
			if _, err = f.Seek(0, io.SeekStart); err == nil {
				s, format, err = wav.Decode(f)
			}
		}
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".flac":
		s, format, err = flac.Decode(f)
	case ".ogg", ".oga":
		s, format, err = vorbis.Decode(f)
	case ".opus":
		// fully buffered, the file is not needed after decoding
		s, format, err = DecodeOpus(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", filepath.Base(path))
		}
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "decode %s", filepath.Base(path))
	}

	return &Source{
		Streamer: s,
		Format:   format,
		Info: Info{
			Format: audio.Format{NumChannels: format.NumChannels, SampleRate: int(format.SampleRate)},
			Frames: s.Len(),
		},
	}, nil
}

func isSupported(ext string) bool {
	for _, e := range Supported {
		if e == ext {
			return true
		}
	}
	return false
}
