// SPDX-License-Identifier: EPL-2.0

package adapter

import (
	"github.com/go-logr/logr"

	"github.com/ik5/audpipe/resample"
)

type config struct {
	log       logr.Logger
	resampler resample.Factory
}

// Option configures an adapter stage.
type Option func(*config)

func newConfig(opts []Option) config {
	c := config{
		log:       logr.Discard(),
		resampler: resample.CubicFactory(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// WithLogger sets the logger used for connection decisions.
func WithLogger(l logr.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithResampler sets the factory a Converter uses when input and output
// rates differ. Defaults to resample.CubicFactory().
func WithResampler(f resample.Factory) Option {
	return func(c *config) {
		if f != nil {
			c.resampler = f
		}
	}
}
