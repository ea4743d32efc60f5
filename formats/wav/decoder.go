// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/wav"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
)

const (
	formatPCM        = 1
	formatExtensible = 0xfffe
)

// Source is a pipeline source decoding a PCM WAV stream.
type Source struct {
	audio.Native

	open func() (audio.PCMReader, error)
	dec  audio.PCMReader
	pump audio.IntPump
}

func newSource(f format.Format, dec audio.PCMReader, open func() (audio.PCMReader, error)) *Source {
	s := &Source{
		Native: audio.NewNative(f),
		open:   open,
		dec:    dec,
		pump:   audio.IntPump{Channels: f.Channels(), BitDepth: f.BitDepth},
	}
	// 8-bit WAV samples are unsigned.
	if f.BitDepth == 8 {
		s.pump.Offset = -128
	}
	return s
}

func (s *Source) PerformInto(buf *audio.Buffer) (int, error) {
	if err := buf.CheckFormat(s.Format()); err != nil {
		return 0, err
	}
	n, err := s.pump.Fill(s.dec, buf)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("reading wav samples: %w", err)
	}
	return n, err
}

func (s *Source) Reset() error { return s.Seek(0) }

// Seek reopens the stream and skips to pos.
func (s *Source) Seek(pos time.Duration) error {
	dec, err := s.open()
	if err != nil {
		return err
	}
	s.dec = dec

	if err := s.pump.Skip(dec, s.FrameAt(pos)); err != nil {
		return fmt.Errorf("seeking wav to %v: %w", pos, err)
	}
	return nil
}

// Decoder builds wav Sources. It implements audio.Decoder.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	s, err := Open(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Open parses the WAV header of r and returns a Source positioned at the
// first frame. Readers that cannot seek are buffered in memory.
func Open(r io.Reader) (*Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec, err := inspect(rs)
	if err != nil {
		return nil, err
	}

	f := format.Format{
		BitDepth:   int(dec.BitDepth),
		SampleRate: float64(dec.SampleRate),
		ChannelMap: format.DefaultChannelMap(int(dec.NumChans)),
		SampleType: format.SignedInt,
		ByteOrder:  format.LittleEndian,
		Layout:     format.Interleaved,
	}

	open := func() (audio.PCMReader, error) {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewinding wav: %w", err)
		}
		return inspect(rs)
	}
	return newSource(f, dec, open), nil
}

func inspect(rs io.ReadSeeker) (*wav.Decoder, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	dec.ReadInfo()

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %#x", ErrNotPCM, dec.WavAudioFormat)
	}
	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}
	return dec, nil
}
