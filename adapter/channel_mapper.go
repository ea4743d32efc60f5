// SPDX-License-Identifier: EPL-2.0

package adapter

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/utils"
)

// ChannelMapper converts between two channel maps. Every other field of
// the format passes through unchanged.
type ChannelMapper struct {
	audio.Link

	from, to   format.ChannelMap
	routine    Routine
	log        logr.Logger
	output     format.Format
	configured bool

	scratch *audio.Buffer
	mixIn   []float64
}

// NewChannelMapper returns a mapper from one channel map to another using
// the routine registered in table. A nil table means DefaultMappings.
func NewChannelMapper(from, to format.ChannelMap, table *MappingTable, opts ...Option) (*ChannelMapper, error) {
	if table == nil {
		table = DefaultMappings()
	}
	r, ok := table.Lookup(from, to)
	if !ok {
		return nil, fmt.Errorf("%w: %v to %v", audio.ErrNoChannelMapping, from, to)
	}

	cfg := newConfig(opts)
	return &ChannelMapper{
		from:    from,
		to:      to,
		routine: r,
		log:     cfg.log.WithName("channel-mapper"),
		mixIn:   make([]float64, from.Channels()),
	}, nil
}

func (m *ChannelMapper) Kind() audio.Kind { return audio.KindChannelMapper }

func (m *ChannelMapper) setup(cm format.ChannelMap) format.Setup {
	if m.configured {
		return format.SetupOf(m.output.WithChannelMap(cm))
	}
	return format.Setup{
		BitDepth:   format.PassThrough[int](),
		SampleRate: format.PassThrough[float64](),
		ChannelMap: format.Specify(cm),
	}
}

func (m *ChannelMapper) OutputSetups() []format.Setup {
	return []format.Setup{m.setup(m.to)}
}

func (m *ChannelMapper) InputSetups() []format.Setup {
	return []format.Setup{m.setup(m.from)}
}

func (m *ChannelMapper) SetOutputFormat(f format.Format) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrInvalidFormat, err)
	}
	if !f.ChannelMap.Compatible(m.to) {
		return fmt.Errorf("%w: mapper produces %v, asked for %v", audio.ErrIncompatibleFormat, m.to, f.ChannelMap)
	}
	if m.Connected() && m.InputFormat().WithChannelMap(f.ChannelMap) != f {
		return fmt.Errorf("%w: input %v cannot become %v", audio.ErrIncompatibleFormat, m.InputFormat(), f)
	}

	m.output = f
	m.configured = true
	return nil
}

func (m *ChannelMapper) ConnectInput(upstream audio.Source, f format.Format) error {
	if !m.configured {
		return audio.ErrOutputNotSet
	}
	if !f.ChannelMap.Compatible(m.from) {
		return fmt.Errorf("%w: mapper consumes %v, got %v", audio.ErrIncompatibleFormat, m.from, f.ChannelMap)
	}
	if f.WithChannelMap(m.output.ChannelMap) != m.output {
		return fmt.Errorf("%w: %v differs from %v beyond the channel map", audio.ErrIncompatibleFormat, f, m.output)
	}
	if err := m.Bind(upstream, f); err != nil {
		return err
	}

	m.log.V(1).Info("connected", "from", m.from, "to", m.to, "routing", m.routine.IsRouting(), "format", m.output)
	return nil
}

func (m *ChannelMapper) PerformInto(buf *audio.Buffer) (int, error) {
	if !m.Connected() {
		return 0, audio.ErrNotConnected
	}
	if err := buf.CheckFormat(m.output); err != nil {
		return 0, err
	}

	m.scratch = audio.EnsureBuffer(m.scratch, m.InputFormat(), buf.Capacity())
	n, err := m.Pull(m.scratch)
	n = min(n, m.scratch.Frames())

	if m.routine.IsRouting() {
		m.route(buf, n)
	} else {
		m.mix(buf, n)
	}
	buf.SetFrames(n)
	return n, err
}

func (m *ChannelMapper) route(dst *audio.Buffer, frames int) {
	for fr := range frames {
		for out, in := range m.routine.Route {
			copy(dst.Sample(fr, out), m.scratch.Sample(fr, in))
		}
	}
}

func (m *ChannelMapper) mix(dst *audio.Buffer, frames int) {
	in := utils.NewCodec(m.InputFormat())
	out := utils.NewCodec(m.output)

	for fr := range frames {
		for c := range m.mixIn {
			m.mixIn[c] = in.Float(m.scratch.Sample(fr, c))
		}
		for o, row := range m.routine.Matrix {
			var sum float64
			for c, w := range row {
				sum += w * m.mixIn[c]
			}
			out.PutFloat(dst.Sample(fr, o), sum)
		}
	}
}
