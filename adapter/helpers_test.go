// SPDX-License-Identifier: EPL-2.0

package adapter

import (
	"github.com/ik5/audpipe/format"
)

func pcm(bits int, rate float64, cm format.ChannelMap) format.Format {
	return format.Format{
		BitDepth:   bits,
		SampleRate: rate,
		ChannelMap: cm,
		SampleType: format.SignedInt,
		ByteOrder:  format.LittleEndian,
		Layout:     format.Interleaved,
	}
}

func float32Format(rate float64, cm format.ChannelMap) format.Format {
	f := pcm(32, rate, cm)
	f.SampleType = format.Float
	return f
}

func perChannel(values ...float64) func(int, int) float64 {
	return func(_, ch int) float64 { return values[ch] }
}
