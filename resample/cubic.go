// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"fmt"
	"io"
	"math"
)

const (
	// MaxChannels is the largest channel count NewCubic accepts.
	MaxChannels = 32

	windowFrames       = 4
	defaultBlockFrames = 1024
	maxEmptySupplies   = 64
)

// Option configures a Cubic resampler.
type Option func(*Cubic)

// WithBlockFrames sets how many frames are requested per Supply call.
func WithBlockFrames(n int) Option {
	return func(r *Cubic) {
		if n > 0 {
			r.block = n
		}
	}
}

// WithAntiAlias toggles the one-pole low-pass applied to input frames when
// downsampling. It is on by default.
func WithAntiAlias(on bool) Option {
	return func(r *Cubic) {
		r.antiAlias = on
	}
}

// Cubic resamples interleaved float32 frames with Catmull-Rom interpolation.
// For N input frames it produces floor((N-1)*ratio)+1 output frames.
type Cubic struct {
	channels int
	ratio    float64
	step     float64 // input frames advanced per output frame
	supply   Supply
	block    int

	// window holds input frames base-1 .. base+2. The output position is
	// base+frac, between window[1] and window[2].
	window [windowFrames][]float32
	base   int64
	frac   float64
	primed bool

	pending []float32
	read    int64 // real input frames taken so far
	empty   int
	drained bool // supply returned io.EOF
	ended   bool // drained and pending consumed; last is valid
	last    int64

	antiAlias   bool
	filterAlpha float32
	filterState []float32
}

// NewCubic returns a resampler producing ratio output frames per input
// frame.
func NewCubic(channels int, ratio float64, supply Supply, opts ...Option) (*Cubic, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidConfig, channels)
	}
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return nil, fmt.Errorf("%w: ratio %v", ErrInvalidConfig, ratio)
	}
	if supply == nil {
		return nil, fmt.Errorf("%w: nil supply", ErrInvalidConfig)
	}

	r := &Cubic{
		channels:    channels,
		ratio:       ratio,
		step:        1 / ratio,
		supply:      supply,
		block:       defaultBlockFrames,
		antiAlias:   true,
		filterAlpha: 0.5,
		filterState: make([]float32, channels),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	// Only filter when downsampling.
	r.antiAlias = r.antiAlias && ratio < 1

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	return r, nil
}

// CubicFactory returns a Factory building Cubic resamplers with opts.
func CubicFactory(opts ...Option) Factory {
	return func(channels int, ratio float64, supply Supply) (Resampler, error) {
		r, err := NewCubic(channels, ratio, supply, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

func (r *Cubic) Channels() int      { return r.channels }
func (r *Cubic) Ratio() float64     { return r.ratio }
func (r *Cubic) MinimumFrames() int { return windowFrames }

// Reset drops history and any input not yet consumed.
func (r *Cubic) Reset() {
	r.base = 0
	r.frac = 0
	r.primed = false
	r.pending = nil
	r.read = 0
	r.empty = 0
	r.drained = false
	r.ended = false
	r.last = 0
	clear(r.filterState)
}

// nextInput copies the next real input frame into dst. It reports false once
// the supply is drained.
func (r *Cubic) nextInput(dst []float32) (bool, error) {
	for len(r.pending) == 0 {
		if r.drained {
			if !r.ended {
				r.ended = true
				r.last = r.read - 1
			}
			return false, nil
		}

		p, err := r.supply(r.block)
		r.pending = p[:len(p)/r.channels*r.channels]
		if err == io.EOF {
			r.drained = true
		} else if err != nil {
			return false, err
		}

		if len(r.pending) == 0 && !r.drained {
			r.empty++
			if r.empty >= maxEmptySupplies {
				return false, io.ErrNoProgress
			}
		} else {
			r.empty = 0
		}
	}

	copy(dst, r.pending[:r.channels])
	r.pending = r.pending[r.channels:]

	if r.antiAlias {
		if r.read == 0 {
			// Seed the filter with the first frame to avoid a warm-up transient.
			copy(r.filterState, dst)
		}
		for c := range r.channels {
			// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}

	r.read++
	return true, nil
}

// fill loads window slot i, repeating the previous slot past the end of input.
func (r *Cubic) fill(i int) error {
	ok, err := r.nextInput(r.window[i])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[i], r.window[i-1])
	}
	return nil
}

func (r *Cubic) prime() error {
	ok, err := r.nextInput(r.window[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.window[0], r.window[1])

	for i := 2; i < windowFrames; i++ {
		if err := r.fill(i); err != nil {
			return err
		}
	}

	r.base = 0
	r.frac = 0
	r.primed = true
	return nil
}

func (r *Cubic) advance() error {
	oldest := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[windowFrames-1] = oldest
	r.base++
	return r.fill(windowFrames - 1)
}

// Read produces resampled frames into dst, whose length must be a multiple
// of the channel count.
func (r *Cubic) Read(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	framesNeeded := len(dst) / r.channels
	written := 0

	for written < framesNeeded {
		for r.frac >= 1 {
			r.frac--
			if err := r.advance(); err != nil {
				return written, err
			}
		}

		if r.ended && float64(r.base)+r.frac > float64(r.last) {
			return written, io.EOF
		}

		x := float32(r.frac)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = catmullRom(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.frac += r.step
	}

	return written, nil
}
