// SPDX-License-Identifier: EPL-2.0

package negotiate

import (
	"github.com/ik5/audpipe/format"
)

// both resolves a field both sides must agree on.
func both[T comparable](a, b format.Field[T], pref T) (T, bool) {
	av, aok := a.Value()
	bv, bok := b.Value()
	switch {
	case aok && bok:
		return av, av == bv
	case aok:
		return av, true
	case bok:
		return bv, true
	}
	return pref, true
}

func bothOption[T comparable](a, b format.Option[T], pref T) (T, bool) {
	av, aok := a.Value()
	bv, bok := b.Value()
	switch {
	case aok && bok:
		return av, av == bv
	case aok:
		return av, true
	case bok:
		return bv, true
	}
	return pref, true
}

func bothMap(a, b format.Field[format.ChannelMap], pref format.ChannelMap) (format.ChannelMap, bool) {
	av, aok := a.Value()
	bv, bok := b.Value()
	switch {
	case aok && bok:
		return av.Concrete(bv), av.Compatible(bv)
	case aok:
		return av, true
	case bok:
		return bv, true
	}
	return pref, true
}

// direct resolves the format a source setup and a destination setup can
// share without adapters.
func direct(src, dst format.Setup, pref format.Format) (format.Format, bool) {
	var f format.Format
	var ok [6]bool

	f.BitDepth, ok[0] = both(src.BitDepth, dst.BitDepth, pref.BitDepth)
	f.SampleRate, ok[1] = both(src.SampleRate, dst.SampleRate, pref.SampleRate)
	f.ChannelMap, ok[2] = bothMap(src.ChannelMap, dst.ChannelMap, pref.ChannelMap)
	f.SampleType, ok[3] = bothOption(src.SampleType, dst.SampleType, pref.SampleType)
	f.ByteOrder, ok[4] = bothOption(src.ByteOrder, dst.ByteOrder, pref.ByteOrder)
	f.Layout, ok[5] = bothOption(src.Layout, dst.Layout, pref.Layout)

	for _, v := range ok {
		if !v {
			return format.Format{}, false
		}
	}
	return f, f.Validate() == nil
}

// own resolves a field from one side's point of view: its own value wins
// over the other side's.
func own[T comparable](mine, other format.Field[T], pref T) T {
	if v, ok := mine.Value(); ok {
		return v
	}
	if v, ok := other.Value(); ok {
		return v
	}
	return pref
}

func ownOption[T comparable](mine, other format.Option[T], pref T) T {
	if v, ok := mine.Value(); ok {
		return v
	}
	if v, ok := other.Value(); ok {
		return v
	}
	return pref
}

func ownMap(mine, other format.Field[format.ChannelMap], pref format.ChannelMap) format.ChannelMap {
	v, ok := mine.Value()
	if !ok {
		return own(mine, other, pref)
	}
	if o, ok := other.Value(); ok && v.Compatible(o) {
		return v.Concrete(o)
	}
	return v
}

// sided resolves the format mine would use when facing other.
func sided(mine, other format.Setup, pref format.Format) format.Format {
	return format.Format{
		BitDepth:   own(mine.BitDepth, other.BitDepth, pref.BitDepth),
		SampleRate: own(mine.SampleRate, other.SampleRate, pref.SampleRate),
		ChannelMap: ownMap(mine.ChannelMap, other.ChannelMap, pref.ChannelMap),
		SampleType: ownOption(mine.SampleType, other.SampleType, pref.SampleType),
		ByteOrder:  ownOption(mine.ByteOrder, other.ByteOrder, pref.ByteOrder),
		Layout:     ownOption(mine.Layout, other.Layout, pref.Layout),
	}
}
