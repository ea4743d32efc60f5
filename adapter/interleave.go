// SPDX-License-Identifier: EPL-2.0

package adapter

import (
	"fmt"
	"unsafe"

	"github.com/go-logr/logr"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
)

type sample interface {
	[1]byte | [2]byte | [3]byte | [4]byte | [8]byte
}

func samples[S sample](b []byte) []S {
	var z S
	size := int(unsafe.Sizeof(z))
	if len(b) < size {
		return nil
	}
	return unsafe.Slice((*S)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/size)
}

type kernel func(dst, src *audio.Buffer, frames int)

func interleave[S sample](dst, src *audio.Buffer, frames int) {
	out := samples[S](dst.Planes()[0])
	planes := src.Planes()
	ch := len(planes)

	for c, p := range planes {
		in := samples[S](p)
		for f := range frames {
			out[f*ch+c] = in[f]
		}
	}
}

func deinterleave[S sample](dst, src *audio.Buffer, frames int) {
	in := samples[S](src.Planes()[0])
	planes := dst.Planes()
	ch := len(planes)

	for c, p := range planes {
		out := samples[S](p)
		for f := range frames {
			out[f] = in[f*ch+c]
		}
	}
}

func layoutKernel(to format.Layout, bytesPerSample int) (kernel, bool) {
	if to == format.Interleaved {
		switch bytesPerSample {
		case 1:
			return interleave[[1]byte], true
		case 2:
			return interleave[[2]byte], true
		case 3:
			return interleave[[3]byte], true
		case 4:
			return interleave[[4]byte], true
		case 8:
			return interleave[[8]byte], true
		}
		return nil, false
	}

	switch bytesPerSample {
	case 1:
		return deinterleave[[1]byte], true
	case 2:
		return deinterleave[[2]byte], true
	case 3:
		return deinterleave[[3]byte], true
	case 4:
		return deinterleave[[4]byte], true
	case 8:
		return deinterleave[[8]byte], true
	}
	return nil, false
}

// Interleaver changes only the layout of the stream. NewInterleaver makes
// a stage producing interleaved frames from planar input; NewDeinterleaver
// the reverse.
type Interleaver struct {
	audio.Link

	kind       audio.Kind
	to, from   format.Layout
	log        logr.Logger
	output     format.Format
	configured bool
	apply      kernel

	scratch *audio.Buffer
}

func newInterleaver(kind audio.Kind, to, from format.Layout, opts []Option) *Interleaver {
	cfg := newConfig(opts)
	return &Interleaver{
		kind: kind,
		to:   to,
		from: from,
		log:  cfg.log.WithName(kind.String()),
	}
}

// NewInterleaver returns a stage converting planar input to interleaved
// output.
func NewInterleaver(opts ...Option) *Interleaver {
	return newInterleaver(audio.KindInterleaver, format.Interleaved, format.Planar, opts)
}

// NewDeinterleaver returns a stage converting interleaved input to planar
// output.
func NewDeinterleaver(opts ...Option) *Interleaver {
	return newInterleaver(audio.KindDeinterleaver, format.Planar, format.Interleaved, opts)
}

func (s *Interleaver) Kind() audio.Kind { return s.kind }

func (s *Interleaver) setup(l format.Layout) format.Setup {
	if s.configured {
		return format.SetupOf(s.output.WithLayout(l))
	}
	st := format.PassThroughSetup()
	st.Layout = format.Some(l)
	return st
}

func (s *Interleaver) OutputSetups() []format.Setup { return []format.Setup{s.setup(s.to)} }
func (s *Interleaver) InputSetups() []format.Setup  { return []format.Setup{s.setup(s.from)} }

func (s *Interleaver) SetOutputFormat(f format.Format) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrInvalidFormat, err)
	}
	if f.Layout != s.to {
		return fmt.Errorf("%w: %s produces %s, asked for %s", audio.ErrIncompatibleFormat, s.kind, s.to, f.Layout)
	}
	k, ok := layoutKernel(s.to, f.BytesPerSample())
	if !ok {
		return fmt.Errorf("%w: %s for %d bytes per sample", audio.ErrUnimplemented, s.kind, f.BytesPerSample())
	}

	s.output = f
	s.apply = k
	s.configured = true
	return nil
}

func (s *Interleaver) ConnectInput(upstream audio.Source, f format.Format) error {
	if !s.configured {
		return audio.ErrOutputNotSet
	}
	want := s.output.WithLayout(s.from)
	if !f.ChannelMap.Compatible(want.ChannelMap) || f.WithChannelMap(want.ChannelMap) != want {
		return fmt.Errorf("%w: %s needs %v, got %v", audio.ErrIncompatibleFormat, s.kind, want, f)
	}
	if err := s.Bind(upstream, f); err != nil {
		return err
	}

	s.log.V(1).Info("connected", "format", s.output)
	return nil
}

func (s *Interleaver) PerformInto(buf *audio.Buffer) (int, error) {
	if !s.Connected() {
		return 0, audio.ErrNotConnected
	}
	if err := buf.CheckFormat(s.output); err != nil {
		return 0, err
	}

	s.scratch = audio.EnsureBuffer(s.scratch, s.InputFormat(), buf.Capacity())
	n, err := s.Pull(s.scratch)
	n = min(n, s.scratch.Frames())

	s.apply(buf, s.scratch, n)
	buf.SetFrames(n)
	return n, err
}
