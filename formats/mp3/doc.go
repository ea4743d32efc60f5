// SPDX-License-Identifier: EPL-2.0

// Package mp3 connects MP3 streams to a pipeline, using
// github.com/hajimehoshi/go-mp3 for decoding.
//
// go-mp3 always produces 16-bit little-endian interleaved stereo, so the
// Source advertises exactly that format at the stream's sample rate. Mono
// files come out with both channels equal; a channel mapper inserted by
// negotiation folds them back when the destination wants mono.
//
// Decoded bytes are read directly into the pipeline buffer without any
// conversion.
//
// Reset and Seek use the decoder's byte seek, which requires the input
// reader to implement io.Seeker.
package mp3
