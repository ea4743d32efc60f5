// SPDX-License-Identifier: EPL-2.0

// Package wav connects WAV files to a pipeline.
//
// Decoding and encoding are delegated to github.com/go-audio/wav.
//
// # Decoding
//
// Open, or Decoder when a registry is used, parses the header and returns a
// Source producing the file's native format:
//
//	{bits, rate, DefaultChannelMap(channels), int, little-endian, interleaved}
//
// Integer PCM at 8, 16, 24 and 32 bits is supported, for both the plain and
// the extensible format tag. 8-bit samples are stored unsigned in the file
// and are delivered signed.
//
// Reset and Seek rewind the underlying io.ReadSeeker, parse the header again
// and skip frames. Readers that cannot seek are read into memory first.
//
// # Encoding
//
// Writer is a Sink. It fixes the bit depth, 16 by default, and takes the
// sample rate and channel count from whatever upstream it is connected to:
//
//	f, _ := os.Create("out.wav")
//	w, _ := wav.NewWriter(f, wav.WithBitDepth(24))
//	_, err := audpipe.Transcode(src, w, preferred, 1024)
//	w.Close()
//
// Close must be called to write the final chunk sizes.
package wav
