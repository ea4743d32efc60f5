// SPDX-License-Identifier: EPL-2.0

// Package negotiate connects pipeline nodes whose advertised setups may not
// agree.
//
// Connect first looks for a direct match: the first pair of source and
// destination setups, source-major, that resolves to one valid format.
// Fields neither side specifies come from the preferred format. When no
// pair matches, it compares the first setup of each side and inserts the
// stages that bridge them:
//
//	source -> ChannelMapper -> Converter -> destination
//
// A ChannelMapper is inserted when the channel maps are not compatible and
// a Converter when bit depth, sample rate or layout differ. The returned
// format is the one delivered to the destination.
//
//	e := negotiate.New(negotiate.WithLogger(log))
//	f, err := e.Connect(src, sink, format.Format{
//		BitDepth:   16,
//		SampleRate: 48000,
//		ChannelMap: format.ChannelMapStereo,
//	})
package negotiate
