// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/aiff"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
)

// Source is a pipeline source decoding an AIFF stream. Samples are
// delivered big-endian, as stored in the file.
type Source struct {
	audio.Native

	rs   io.ReadSeeker
	dec  audio.PCMReader
	pump audio.IntPump
}

func (s *Source) PerformInto(buf *audio.Buffer) (int, error) {
	if err := buf.CheckFormat(s.Format()); err != nil {
		return 0, err
	}
	n, err := s.pump.Fill(s.dec, buf)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("reading aiff samples: %w", err)
	}
	return n, err
}

func (s *Source) Reset() error { return s.Seek(0) }

// Seek parses the file again from the start and skips to pos.
func (s *Source) Seek(pos time.Duration) error {
	if _, err := s.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding aiff: %w", err)
	}
	dec, _, err := inspect(s.rs)
	if err != nil {
		return err
	}
	s.dec = dec

	if err := s.pump.Skip(dec, s.FrameAt(pos)); err != nil {
		return fmt.Errorf("seeking aiff to %v: %w", pos, err)
	}
	return nil
}

// Decoder builds aiff Sources. It implements audio.Decoder.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	s, err := Open(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Open parses the AIFF header of r. go-audio needs an io.ReadSeeker, so
// other readers are read into memory first.
func Open(r io.Reader) (*Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec, f, err := inspect(rs)
	if err != nil {
		return nil, err
	}

	return &Source{
		Native: audio.NewNative(f),
		rs:     rs,
		dec:    dec,
		pump:   audio.IntPump{Channels: f.Channels(), BitDepth: f.BitDepth},
	}, nil
}

func inspect(rs io.ReadSeeker) (*aiff.Decoder, format.Format, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, format.Format{}, ErrNotAiffFile
	}
	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, format.Format{}, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	info := dec.Format()
	if info == nil || info.NumChannels <= 0 || info.SampleRate <= 0 {
		return nil, format.Format{}, ErrUnsupportedAiffLayout
	}

	return dec, format.Format{
		BitDepth:   int(dec.BitDepth),
		SampleRate: float64(info.SampleRate),
		ChannelMap: format.DefaultChannelMap(info.NumChannels),
		SampleType: format.SignedInt,
		ByteOrder:  format.BigEndian,
		Layout:     format.Interleaved,
	}, nil
}
