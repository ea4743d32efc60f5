// SPDX-License-Identifier: EPL-2.0

// Package audpipe connects audio sources to destinations that disagree on
// format, and runs the resulting pipeline.
//
// A source and a destination each advertise what they can produce or accept
// (see package format). The negotiate package searches for a format both
// sides support and, when there is none, inserts adapter stages: a channel
// mapper, a sample converter with resampler, or an interleaver. This package
// wraps that in a few calls.
//
// # Supported Formats
//
// Boundary nodes for files live under formats/:
//   - WAV (PCM 8/16/24/32-bit) decoding and encoding via formats/wav
//   - AIFF (PCM 8/16/24/32-bit) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Quick Start
//
// Convert any decodable file to a 16 kHz mono WAV:
//
//	in, _ := os.Open("input.mp3")
//	src, _ := mp3.Decoder{}.Decode(in)
//
//	out, _ := os.Create("output.wav")
//	w, _ := wav.NewWriter(out,
//	    wav.WithSampleRate(16000),
//	    wav.WithChannelMap(format.ChannelMapMono))
//
//	preferred := format.Format{BitDepth: 16, SampleRate: 16000, ChannelMap: format.ChannelMapMono}
//	frames, err := audpipe.Transcode(src, w, preferred, 4096)
//	w.Close()
//
// The engine inserts a channel mapper and a converter when the file differs
// from what the writer asks for. Fields neither side specifies come from the
// preferred format passed to Transcode.
//
// To collect samples in memory instead:
//
//	samples, rate, err := audpipe.ResampleToMono16(src, 8000, 4096)
//
// # Running a Pipeline
//
// Run drives an already connected sink: it pulls blocks from the sink's
// upstream and hands each one to WriteBuffer until the chain reports
// io.EOF. Everything happens on the calling goroutine.
//
// # Packages
//
//   - format: formats, setups and channel maps
//   - audio: node interfaces, buffers, the decoder registry
//   - negotiate: the negotiation engine
//   - adapter: channel mapper, converter, interleaver stages
//   - resample: the resampler boundary and the cubic resampler
package audpipe
