package codec

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const wavFormatPCM = 1

// ProbeWAV reads the RIFF header and rejects WAV encodings the player cannot
// stream, before any decoder is built.
func ProbeWAV(r io.ReadSeeker) (Info, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Info{}, errors.New("not a valid WAV file")
	}
	if d.WavAudioFormat != wavFormatPCM {
		return Info{}, errors.Errorf("unsupported WAV encoding %d (only PCM)", d.WavAudioFormat)
	}
	switch d.BitDepth {
	case 8, 16, 24:
	default:
		return Info{}, errors.Errorf("unsupported WAV bit depth %d", d.BitDepth)
	}
	if err := d.FwdToPCM(); err != nil {
		return Info{}, errors.Wrap(err, "locate WAV data chunk")
	}

	bytesPerFrame := int(d.NumChans) * int(d.BitDepth/8)
	frames := 0
	if bytesPerFrame > 0 {
		frames = d.PCMSize / bytesPerFrame
	}
	return Info{
		Format: audio.Format{NumChannels: int(d.NumChans), SampleRate: int(d.SampleRate)},
		Frames: frames,
	}, nil
}
