// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/utils"
)

// Sink is a Sink node recording every block written to it.
type Sink struct {
	audio.Link
	setups []format.Setup

	// Samples holds the normalized interleaved samples received.
	Samples []float64
	// Ints holds the raw interleaved samples for integer formats.
	Ints   []int64
	Frames int
	Blocks int
	Closed bool
}

// NewSink returns a sink accepting any format allowed by setups.
func NewSink(setups ...format.Setup) *Sink {
	return &Sink{setups: setups}
}

func (s *Sink) Kind() audio.Kind            { return audio.KindDestination }
func (s *Sink) InputSetups() []format.Setup { return s.setups }

func (s *Sink) ConnectInput(up audio.Source, f format.Format) error {
	return s.Bind(up, f)
}

func (s *Sink) Close() error {
	s.Closed = true
	return nil
}

func (s *Sink) WriteBuffer(buf *audio.Buffer) error {
	if !s.Connected() {
		return audio.ErrNotConnected
	}
	f := s.InputFormat()
	if err := buf.CheckFormat(f); err != nil {
		return err
	}

	c := utils.NewCodec(f)
	for fr := range buf.Frames() {
		for ch := range f.Channels() {
			b := buf.Sample(fr, ch)
			s.Samples = append(s.Samples, c.Float(b))
			if !c.IsFloat() {
				s.Ints = append(s.Ints, c.Int(b))
			}
		}
	}
	s.Frames += buf.Frames()
	s.Blocks++
	return nil
}
