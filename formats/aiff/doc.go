// SPDX-License-Identifier: EPL-2.0

// Package aiff connects AIFF (Audio Interchange File Format) files to a
// pipeline, using github.com/go-audio/aiff for parsing.
//
// Open returns a Source with a single, fully specified output setup:
//
//	{bits, rate, DefaultChannelMap(channels), int, big-endian, interleaved}
//
// AIFF stores samples big-endian. The source keeps that byte order, so a
// little-endian destination gets a converter inserted by negotiation.
// 8, 16, 24 and 32-bit integer PCM is supported; AIFF-C compression is not.
//
// Reset and Seek reparse the header and skip frames, so they require the
// reader to be an io.ReadSeeker. Other readers are buffered in memory.
package aiff
