// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides pipeline nodes for tests.
package audiotest

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/utils"
)

// Waveform returns the normalized value of channel in frame.
type Waveform func(frame, channel int) float64

// Silence generates zeros.
func Silence() Waveform {
	return func(int, int) float64 { return 0 }
}

// Constant generates v on every channel.
func Constant(v float64) Waveform {
	return func(int, int) float64 { return v }
}

// Sine generates a tone of freq Hz at rate, the same on every channel.
func Sine(rate, freq float64) Waveform {
	return func(frame, _ int) float64 {
		return math.Sin(2 * math.Pi * freq * float64(frame) / rate)
	}
}

// Steps generates values that are exact at 16 bits: frame and channel are
// folded into a distinct multiple of 1/32768.
func Steps() Waveform {
	return func(frame, channel int) float64 {
		v := (frame*7 + channel*1000) % 65536
		return float64(v-32768) / 32768
	}
}

// Source is a Source node generating frames from a Waveform.
type Source struct {
	setups []format.Setup
	total  int
	pos    int
	wave   Waveform

	format format.Format
	set    bool

	// Req is returned by Requirements.
	Req audio.Requirements
	// Err, when set, is returned by PerformInto instead of data.
	Err error

	Resets int
	Seeks  int
}

// NewSource returns a source producing total frames of wave in any format
// accepted by setups.
func NewSource(total int, wave Waveform, setups ...format.Setup) *Source {
	return &Source{
		setups: setups,
		total:  total,
		wave:   wave,
		Req:    audio.DefaultRequirements(),
	}
}

// NewFormatSource returns a source that only produces f, already configured.
func NewFormatSource(f format.Format, total int, wave Waveform) *Source {
	s := NewSource(total, wave, format.SetupOf(f))
	s.format = f
	s.set = true
	return s
}

func (s *Source) Kind() audio.Kind                 { return audio.KindSource }
func (s *Source) OutputSetups() []format.Setup     { return s.setups }
func (s *Source) Requirements() audio.Requirements { return s.Req }

// Format returns the configured output format.
func (s *Source) Format() format.Format { return s.format }

// Position returns the next frame to be produced.
func (s *Source) Position() int { return s.pos }

func (s *Source) SetOutputFormat(f format.Format) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrInvalidFormat, err)
	}
	if !format.AcceptsAny(s.setups, f) {
		return fmt.Errorf("%w: source cannot produce %v", audio.ErrIncompatibleFormat, f)
	}

	s.format = f
	s.set = true
	return nil
}

func (s *Source) PerformInto(buf *audio.Buffer) (int, error) {
	if !s.set {
		return 0, audio.ErrOutputNotSet
	}
	if s.Err != nil {
		return 0, s.Err
	}
	if err := buf.CheckFormat(s.format); err != nil {
		return 0, err
	}
	if s.pos >= s.total {
		buf.SetFrames(0)
		return 0, io.EOF
	}

	n := min(buf.Capacity(), s.total-s.pos)
	c := utils.NewCodec(s.format)
	for fr := range n {
		for ch := range s.format.Channels() {
			c.PutFloat(buf.Sample(fr, ch), s.wave(s.pos+fr, ch))
		}
	}
	buf.SetFrames(n)
	s.pos += n

	if s.pos >= s.total {
		return n, io.EOF
	}
	return n, nil
}

func (s *Source) Reset() error {
	s.pos = 0
	s.Resets++
	return nil
}

func (s *Source) Seek(pos time.Duration) error {
	s.Seeks++
	s.pos = min(max(int(pos.Seconds()*s.format.SampleRate), 0), s.total)
	return nil
}

// ReadAll pulls src to the end in blocks of the given size and returns the
// normalized interleaved samples.
func ReadAll(src audio.Source, f format.Format, block int) ([]float64, error) {
	buf := audio.NewBuffer(f, src.Requirements().Frames(block))
	c := utils.NewCodec(f)

	var out []float64
	for {
		n, err := src.PerformInto(buf)
		for fr := range n {
			for ch := range f.Channels() {
				out = append(out, c.Float(buf.Sample(fr, ch)))
			}
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
