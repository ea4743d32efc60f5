// SPDX-License-Identifier: EPL-2.0

package resample

// Supply is invoked by a Resampler whenever it needs more input. It returns
// up to frames interleaved float32 frames. The returned slice is only read
// until the next call. io.EOF reports that input is drained; it must not be
// returned while frames remain.
type Supply func(frames int) ([]float32, error)

// Resampler converts a pulled stream of interleaved float32 frames to
// another rate.
type Resampler interface {
	// Read writes up to len(dst)/channels frames and returns the number of
	// frames written. io.EOF marks the end of output and may accompany n > 0.
	Read(dst []float32) (int, error)
	// Reset drops all history and pending input.
	Reset()
	// MinimumFrames is the smallest read the resampler serves efficiently.
	MinimumFrames() int
}

// Factory constructs a Resampler for the given channel count and
// output/input rate ratio, pulling its input through supply.
type Factory func(channels int, ratio float64, supply Supply) (Resampler, error)
