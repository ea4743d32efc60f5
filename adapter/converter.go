// SPDX-License-Identifier: EPL-2.0

package adapter

import (
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/resample"
	"github.com/ik5/audpipe/utils"
)

// Converter changes bit depth, sample rate and layout, and normalizes sample
// type and byte order. The channel count never changes.
type Converter struct {
	audio.Link

	cfg        config
	log        logr.Logger
	output     format.Format
	configured bool

	scratch *audio.Buffer
	in, out utils.Codec

	resampler resample.Resampler
	pending   []float32 // frames handed to the resampler by supply
	frames    []float32 // resampler output
	drained   bool
}

// NewConverter returns an unconfigured converter.
func NewConverter(opts ...Option) *Converter {
	cfg := newConfig(opts)
	return &Converter{
		cfg: cfg,
		log: cfg.log.WithName("converter"),
	}
}

func (c *Converter) Kind() audio.Kind { return audio.KindConverter }

func (c *Converter) OutputSetups() []format.Setup {
	if c.configured {
		return []format.Setup{format.SetupOf(c.output)}
	}
	return []format.Setup{{ChannelMap: format.PassThrough[format.ChannelMap]()}}
}

func (c *Converter) InputSetups() []format.Setup {
	if c.configured {
		return []format.Setup{{ChannelMap: format.Specify(c.output.ChannelMap)}}
	}
	return []format.Setup{{ChannelMap: format.PassThrough[format.ChannelMap]()}}
}

func (c *Converter) SetOutputFormat(f format.Format) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrInvalidFormat, err)
	}
	if c.Connected() && c.InputFormat().Channels() != f.Channels() {
		return fmt.Errorf("%w: converter cannot change %d channels to %d",
			audio.ErrIncompatibleFormat, c.InputFormat().Channels(), f.Channels())
	}

	c.output = f
	c.configured = true
	return nil
}

// Resampling reports whether input and output rates differ.
func (c *Converter) Resampling() bool { return c.resampler != nil }

func (c *Converter) ConnectInput(upstream audio.Source, f format.Format) error {
	if !c.configured {
		return audio.ErrOutputNotSet
	}
	if f.Channels() != c.output.Channels() {
		return fmt.Errorf("%w: converter cannot change %d channels to %d",
			audio.ErrIncompatibleFormat, f.Channels(), c.output.Channels())
	}
	if c.Connected() {
		return audio.ErrAlreadyConnected
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrInvalidFormat, err)
	}

	var r resample.Resampler
	if f.SampleRate != c.output.SampleRate {
		ratio := c.output.SampleRate / f.SampleRate
		var err error
		r, err = c.cfg.resampler(f.Channels(), ratio, c.supply)
		if err != nil {
			return &audio.AdapterError{Kind: audio.KindConverter, Err: err}
		}
	}

	if err := c.Bind(upstream, f); err != nil {
		return err
	}
	c.resampler = r
	c.in = utils.NewCodec(f)
	c.out = utils.NewCodec(c.output)

	c.log.V(1).Info("connected", "input", f, "output", c.output, "resampling", r != nil)
	return nil
}

func (c *Converter) Requirements() audio.Requirements {
	req := c.Link.Requirements()
	if c.resampler != nil {
		req = req.Merge(audio.Requirements{FrameGranularity: 1, MinimumFrames: c.resampler.MinimumFrames()})
	}
	return req
}

func (c *Converter) PerformInto(buf *audio.Buffer) (int, error) {
	if !c.Connected() {
		return 0, audio.ErrNotConnected
	}
	if err := buf.CheckFormat(c.output); err != nil {
		return 0, err
	}
	if c.resampler != nil {
		return c.performResampled(buf)
	}

	c.scratch = audio.EnsureBuffer(c.scratch, c.InputFormat(), buf.Capacity())
	n, err := c.Pull(c.scratch)
	n = min(n, c.scratch.Frames())

	ch := c.output.Channels()
	for fr := range n {
		for i := range ch {
			c.in.Convert(c.out, buf.Sample(fr, i), c.scratch.Sample(fr, i))
		}
	}
	buf.SetFrames(n)
	return n, err
}

func (c *Converter) performResampled(buf *audio.Buffer) (int, error) {
	size := buf.Capacity() * c.output.Channels()
	if cap(c.frames) < size {
		c.frames = make([]float32, size)
	}

	n, err := c.resampler.Read(c.frames[:size])
	buf.WriteFloat32s(c.frames[:n*c.output.Channels()])
	return n, err
}

// supply feeds the resampler from the upstream. io.EOF is held back until
// the frames delivered with it have been handed over.
func (c *Converter) supply(frames int) ([]float32, error) {
	if c.drained {
		return nil, io.EOF
	}

	frames = c.Link.Requirements().Frames(frames)
	c.scratch = audio.EnsureBuffer(c.scratch, c.InputFormat(), frames)
	n, err := c.Pull(c.scratch)
	c.scratch.SetFrames(min(n, c.scratch.Frames()))
	c.pending = c.scratch.Float32s(c.pending[:0])

	switch {
	case err == io.EOF:
		c.drained = true
		if len(c.pending) == 0 {
			return nil, io.EOF
		}
	case err != nil:
		return nil, err
	}
	return c.pending, nil
}

func (c *Converter) clear() {
	c.pending = c.pending[:0]
	c.drained = false
	if c.resampler != nil {
		c.resampler.Reset()
	}
}

func (c *Converter) Reset() error {
	c.clear()
	return c.Link.Reset()
}

func (c *Converter) Seek(pos time.Duration) error {
	c.clear()
	return c.Link.Seek(pos)
}
