// SPDX-License-Identifier: EPL-2.0

// Package vorbis connects Ogg Vorbis streams to a pipeline, using
// github.com/jfreymuth/oggvorbis for decoding.
//
// The Source produces 32-bit little-endian float samples, interleaved, at
// the stream's rate. Mono and stereo streams use the named channel maps.
// Vorbis orders surround channels differently from the named layouts, so
// streams with more than two channels advertise the unknown map for their
// channel count and are never remixed by a default mapping.
//
// Seek uses the reader's sample position, which requires the input to be an
// io.ReadSeeker.
package vorbis
