/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package codec

import (
	"bufio"
	"bytes"
	"io"

	"github.com/faiface/beep"
	"github.com/hraban/opus"
	"github.com/pkg/errors"

	"hdxscribe/pkg/spec"
)

// opusChannels peeks at the OpusHead packet on the first Ogg page. The
// channel count byte follows the 8 byte magic and the version byte.
func opusChannels(head []byte) (int, error) {
	idx := bytes.Index(head, []byte("OpusHead"))
	if idx < 0 || len(head) < idx+10 {
		return 0, errors.New("no OpusHead packet")
	}
	ch := int(head[idx+9])
	if ch < 1 || ch > 2 {
		return 0, errors.Errorf("unsupported opus channel count %d", ch)
	}
	return ch, nil
}

// DecodeOpus decodes a whole Ogg Opus stream into memory. libopusfile has no
// seek support through this binding, so the buffer provides it instead.
func DecodeOpus(r io.Reader) (beep.StreamSeekCloser, beep.Format, error) {
	br := bufio.NewReaderSize(r, 4096)
	head, _ := br.Peek(512)
	channels, err := opusChannels(head)
	if err != nil {
		return nil, beep.Format{}, err
	}

	stream, err := opus.NewStream(br)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "open opus stream")
	}
	defer stream.Close()

	format := beep.Format{
		SampleRate:  beep.SampleRate(spec.OpusSampleRate),
		NumChannels: channels,
		Precision:   2,
	}
	buf := beep.NewBuffer(format)

	// 120 ms is the largest opus frame
	pcm := make([]int16, 5760*channels)
	for {
		n, err := stream.Read(pcm)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, beep.Format{}, errors.Wrap(err, "decode opus")
		}
		ps := pcmStreamer(toFrames(pcm[:n*channels], channels))
		buf.Append(&ps)
	}

	return nopCloser{buf.Streamer(0, buf.Len())}, format, nil
}

func toFrames(pcm []int16, channels int) [][2]float64 {
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		l := float64(pcm[i*channels]) / 32768.0
		r := l
		if channels == 2 {
			r = float64(pcm[i*channels+1]) / 32768.0
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

// pcmStreamer drains a fixed slice of frames.
type pcmStreamer [][2]float64

func (p *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if len(*p) == 0 {
		return 0, false
	}
	n := copy(samples, *p)
	*p = (*p)[n:]
	return n, true
}

func (p *pcmStreamer) Err() error { return nil }

type nopCloser struct{ beep.StreamSeeker }

func (nopCloser) Close() error { return nil }
