// SPDX-License-Identifier: EPL-2.0

package resample

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidConfig  = errors.New("invalid resampler configuration")
)
