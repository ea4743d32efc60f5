// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"
	"time"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
	SetPosition(pos int64) error
}

// Source is a pipeline source decoding an Ogg Vorbis stream into 32-bit
// float samples.
type Source struct {
	audio.Native

	dec      oggReader
	channels int
	values   []float32
}

// channelMap names mono and stereo. Vorbis orders larger layouts
// differently from the named maps, so they get the unknown escape.
func channelMap(n int) format.ChannelMap {
	if n <= 2 {
		return format.DefaultChannelMap(n)
	}
	return format.UnknownChannelMap(n)
}

func newSource(dec oggReader) *Source {
	ch := dec.Channels()
	return &Source{
		Native: audio.NewNative(format.Format{
			BitDepth:   32,
			SampleRate: float64(dec.SampleRate()),
			ChannelMap: channelMap(ch),
			SampleType: format.Float,
			ByteOrder:  format.LittleEndian,
			Layout:     format.Interleaved,
		}),
		dec:      dec,
		channels: ch,
	}
}

// PerformInto decodes until the buffer is full or the stream ends.
func (s *Source) PerformInto(buf *audio.Buffer) (int, error) {
	if err := buf.CheckFormat(s.Format()); err != nil {
		return 0, err
	}

	want := buf.Capacity() * s.channels
	if cap(s.values) < want {
		s.values = make([]float32, want)
	}
	s.values = s.values[:want]

	total := 0
	var eof bool
	for total < want {
		n, err := s.dec.Read(s.values[total:])
		total += n
		if err == io.EOF || (err == nil && n == 0) {
			eof = true
			break
		}
		if err != nil {
			buf.SetFrames(0)
			return 0, fmt.Errorf("decoding vorbis: %w", err)
		}
	}

	frames := buf.WriteFloat32s(s.values[:total])
	if eof {
		return frames, io.EOF
	}
	return frames, nil
}

func (s *Source) Reset() error { return s.Seek(0) }

func (s *Source) Seek(pos time.Duration) error {
	if err := s.dec.SetPosition(s.FrameAt(pos)); err != nil {
		return fmt.Errorf("seeking vorbis to %v: %w", pos, err)
	}
	return nil
}

// Decoder builds vorbis Sources. It implements audio.Decoder.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening vorbis: %w", err)
	}
	return newSource(dec), nil
}
