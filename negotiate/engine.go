// SPDX-License-Identifier: EPL-2.0

package negotiate

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ik5/audpipe/adapter"
	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/resample"
)

// Engine connects sources to destinations, inserting adapter stages when
// their setups have no common format.
type Engine struct {
	log          logr.Logger
	mappings     *adapter.MappingTable
	resampler    resample.Factory
	exhaustive   bool
	layoutStages bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for negotiation decisions, logged at V(1).
func WithLogger(l logr.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMappings sets the channel map conversions available to inserted
// channel mappers. Defaults to adapter.DefaultMappings().
func WithMappings(t *adapter.MappingTable) Option {
	return func(e *Engine) {
		if t != nil {
			e.mappings = t
		}
	}
}

// WithResampler sets the factory inserted converters use for rate changes.
func WithResampler(f resample.Factory) Option {
	return func(e *Engine) {
		if f != nil {
			e.resampler = f
		}
	}
}

// WithExhaustiveSynthesis makes adapter synthesis consider every pair of
// setups and keep the one needing the fewest adapters, earliest pair first
// on ties. By default only the first setup of each side is used.
func WithExhaustiveSynthesis(on bool) Option {
	return func(e *Engine) {
		e.exhaustive = on
	}
}

// WithLayoutStages bridges a pure layout difference with an Interleaver or
// Deinterleaver instead of a Converter.
func WithLayoutStages(on bool) Option {
	return func(e *Engine) {
		e.layoutStages = on
	}
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:       logr.Discard(),
		mappings:  adapter.DefaultMappings(),
		resampler: resample.CubicFactory(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.log = e.log.WithName("negotiate")
	return e
}

// Connect agrees on a format between src and dst and binds them, directly
// or through adapter stages. It returns the format delivered to dst.
// preferred fills every field neither side specifies.
func (e *Engine) Connect(src audio.Source, dst audio.Destination, preferred format.Format) (format.Format, error) {
	if err := preferred.Validate(); err != nil {
		return format.Format{}, fmt.Errorf("preferred format: %w: %w", audio.ErrInvalidFormat, err)
	}

	outs, ins := src.OutputSetups(), dst.InputSetups()
	if len(outs) == 0 {
		return format.Format{}, fmt.Errorf("%w: %s outputs", audio.ErrNoSetups, src.Kind())
	}
	if len(ins) == 0 {
		return format.Format{}, fmt.Errorf("%w: %s inputs", audio.ErrNoSetups, dst.Kind())
	}

	for i, s := range outs {
		for j, d := range ins {
			f, ok := direct(s, d, preferred)
			if !ok {
				continue
			}

			if err := src.SetOutputFormat(f); err != nil {
				return format.Format{}, fmt.Errorf("source output %v: %w", f, err)
			}
			if err := dst.ConnectInput(src, f); err != nil {
				return format.Format{}, fmt.Errorf("destination input %v: %w", f, err)
			}

			e.log.V(1).Info("direct match",
				"source", i, "destination", j, "format", f)
			return f, nil
		}
	}

	p, err := e.synthesize(outs, ins, preferred)
	if err != nil {
		return format.Format{}, err
	}
	if err := e.wire(src, dst, p); err != nil {
		return format.Format{}, err
	}

	e.log.V(1).Info("adapters inserted",
		"source", p.pair[0], "destination", p.pair[1],
		"format", p.delivered(), "adapters", p.stages)
	return p.delivered(), nil
}

// plan is one way of bridging a source setup and a destination setup.
type plan struct {
	pair   [2]int
	src    format.Format
	dst    format.Format
	stages []audio.Kind // nearest the source first
}

func (p plan) delivered() format.Format {
	if len(p.stages) == 0 {
		return p.src
	}
	return p.dst
}

func (e *Engine) plan(s, d format.Setup, ins []format.Setup, pref format.Format) (plan, error) {
	p := plan{
		src: sided(s, d, pref),
		dst: sided(d, s, pref),
	}
	if err := p.src.Validate(); err != nil {
		return p, fmt.Errorf("%w: source side %v: %w", audio.ErrIncompatibleFormat, s, err)
	}
	if err := p.dst.Validate(); err != nil {
		return p, fmt.Errorf("%w: destination side %v: %w", audio.ErrIncompatibleFormat, d, err)
	}

	mapped := !p.src.ChannelMap.Compatible(p.dst.ChannelMap)
	if mapped {
		if !e.mappings.Supports(p.src.ChannelMap, p.dst.ChannelMap) {
			return p, fmt.Errorf("%w: %v to %v", audio.ErrNoChannelMapping, p.src.ChannelMap, p.dst.ChannelMap)
		}
		p.stages = append(p.stages, audio.KindChannelMapper)
	}

	// A mapper passes sample type and byte order through, so once one is
	// inserted a difference in either needs a Converter behind it.
	encoding := p.src.SampleType != p.dst.SampleType || p.src.ByteOrder != p.dst.ByteOrder
	layoutOnly := p.src.BitDepth == p.dst.BitDepth && p.src.SampleRate == p.dst.SampleRate && !encoding
	switch {
	case p.src.Layout != p.dst.Layout && layoutOnly && e.layoutStages:
		if p.dst.Layout == format.Interleaved {
			p.stages = append(p.stages, audio.KindInterleaver)
		} else {
			p.stages = append(p.stages, audio.KindDeinterleaver)
		}
	case p.src.BitDepth != p.dst.BitDepth, p.src.SampleRate != p.dst.SampleRate, p.src.Layout != p.dst.Layout,
		mapped && encoding:
		p.stages = append(p.stages, audio.KindConverter)
	}

	if f := p.delivered(); !format.AcceptsAny(ins, f) {
		return p, fmt.Errorf("%w: destination does not accept %v", audio.ErrIncompatibleFormat, f)
	}
	return p, nil
}

func (e *Engine) synthesize(outs, ins []format.Setup, pref format.Format) (plan, error) {
	best, err := e.plan(outs[0], ins[0], ins, pref)
	if !e.exhaustive {
		if err != nil {
			return plan{}, fmt.Errorf("setups %v and %v: %w", outs[0], ins[0], err)
		}
		return best, nil
	}

	found := err == nil
	firstErr := err
	for i, s := range outs {
		for j, d := range ins {
			if i == 0 && j == 0 {
				continue
			}
			p, err := e.plan(s, d, ins, pref)
			if err != nil {
				continue
			}
			if !found || len(p.stages) < len(best.stages) {
				p.pair = [2]int{i, j}
				best, found = p, true
			}
		}
	}
	if !found {
		return plan{}, fmt.Errorf("setups %v and %v: %w", outs[0], ins[0], firstErr)
	}
	return best, nil
}

func stageError(k audio.Kind, err error) error {
	var ae *audio.AdapterError
	if errors.As(err, &ae) {
		return err
	}
	return &audio.AdapterError{Kind: k, Err: err}
}

// wire builds and binds the planned stages from the source outwards, so a
// failing stage stops the chain before the destination is touched.
func (e *Engine) wire(src audio.Source, dst audio.Destination, p plan) error {
	if err := src.SetOutputFormat(p.src); err != nil {
		return fmt.Errorf("source output %v: %w", p.src, err)
	}

	up, upFormat := src, p.src
	for i, k := range p.stages {
		out := p.dst
		if i < len(p.stages)-1 {
			out = p.src.WithChannelMap(p.dst.ChannelMap)
		}

		stage, err := e.stage(k, p)
		if err != nil {
			return err
		}
		if err := stage.SetOutputFormat(out); err != nil {
			return stageError(k, err)
		}
		if err := stage.ConnectInput(up, upFormat); err != nil {
			return stageError(k, err)
		}
		up, upFormat = stage, out
	}

	if err := dst.ConnectInput(up, upFormat); err != nil {
		return fmt.Errorf("destination input %v: %w", upFormat, err)
	}
	return nil
}

func (e *Engine) stage(k audio.Kind, p plan) (audio.Adapter, error) {
	opts := []adapter.Option{adapter.WithLogger(e.log), adapter.WithResampler(e.resampler)}

	switch k {
	case audio.KindChannelMapper:
		m, err := adapter.NewChannelMapper(p.src.ChannelMap, p.dst.ChannelMap, e.mappings, opts...)
		if err != nil {
			return nil, err
		}
		return m, nil
	case audio.KindConverter:
		return adapter.NewConverter(opts...), nil
	case audio.KindInterleaver:
		return adapter.NewInterleaver(opts...), nil
	case audio.KindDeinterleaver:
		return adapter.NewDeinterleaver(opts...), nil
	}
	return nil, fmt.Errorf("%w: %s stage", audio.ErrUnimplemented, k)
}
