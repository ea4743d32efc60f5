// SPDX-License-Identifier: EPL-2.0

// Package resample converts streams of interleaved float32 frames between
// sample rates.
//
// A Resampler pulls its input through a Supply callback and is read like an
// io.Reader of frames. Cubic is the built-in implementation: Catmull-Rom
// interpolation over a four frame window, with a one-pole low-pass filter
// applied to the input when downsampling.
//
//	r, err := resample.NewCubic(2, 16000.0/44100.0, supply)
//	if err != nil {
//		return err
//	}
//	n, err := r.Read(out)
//
// A Factory lets a converter node build resamplers on demand; CubicFactory
// returns one for Cubic.
package resample
