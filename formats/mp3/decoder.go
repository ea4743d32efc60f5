// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
)

// go-mp3 always decodes to 16-bit little-endian stereo.
const bytesPerFrame = 4

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	io.ReadSeeker
	SampleRate() int
}

// Source is a pipeline source decoding an MP3 stream.
type Source struct {
	audio.Native

	dec mp3Reader
}

func newSource(dec mp3Reader) *Source {
	return &Source{
		Native: audio.NewNative(format.Format{
			BitDepth:   16,
			SampleRate: float64(dec.SampleRate()),
			ChannelMap: format.ChannelMapStereo,
			SampleType: format.SignedInt,
			ByteOrder:  format.LittleEndian,
			Layout:     format.Interleaved,
		}),
		dec: dec,
	}
}

// PerformInto copies decoded PCM straight into the buffer's plane.
func (s *Source) PerformInto(buf *audio.Buffer) (int, error) {
	if err := buf.CheckFormat(s.Format()); err != nil {
		return 0, err
	}

	plane := buf.Planes()[0][:buf.Capacity()*bytesPerFrame]
	n, err := io.ReadFull(s.dec, plane)
	frames := n / bytesPerFrame
	buf.SetFrames(frames)

	switch {
	case err == nil:
		return frames, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return frames, io.EOF
	}
	return frames, fmt.Errorf("decoding mp3: %w", err)
}

func (s *Source) Reset() error { return s.Seek(0) }

// Seek moves the decoder to pos. The input reader must be an io.Seeker.
func (s *Source) Seek(pos time.Duration) error {
	if _, err := s.dec.Seek(s.FrameAt(pos)*bytesPerFrame, io.SeekStart); err != nil {
		return fmt.Errorf("seeking mp3 to %v: %w", pos, err)
	}
	return nil
}

// Decoder builds mp3 Sources. It implements audio.Decoder.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3: %w", err)
	}
	return newSource(dec), nil
}
