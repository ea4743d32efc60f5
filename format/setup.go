// SPDX-License-Identifier: EPL-2.0

package format

import "fmt"

// Setup is a declarative, partially specified capability a node advertises
// before a concrete Format is chosen.
type Setup struct {
	BitDepth   Field[int]
	SampleRate Field[float64]
	ChannelMap Field[ChannelMap]
	SampleType Option[SampleType]
	ByteOrder  Option[ByteOrder]
	Layout     Option[Layout]
}

// SetupOf returns a setup with every field specified from f.
func SetupOf(f Format) Setup {
	return Setup{
		BitDepth:   Specify(f.BitDepth),
		SampleRate: Specify(f.SampleRate),
		ChannelMap: Specify(f.ChannelMap),
		SampleType: Some(f.SampleType),
		ByteOrder:  Some(f.ByteOrder),
		Layout:     Some(f.Layout),
	}
}

// PassThroughSetup returns a setup whose tri-state fields are all Unchanged
// and whose remaining fields are Unspecified.
func PassThroughSetup() Setup {
	return Setup{
		BitDepth:   PassThrough[int](),
		SampleRate: PassThrough[float64](),
		ChannelMap: PassThrough[ChannelMap](),
	}
}

// Accepts reports whether f satisfies every specified field of s.
func (s Setup) Accepts(f Format) bool {
	if v, ok := s.BitDepth.Value(); ok && v != f.BitDepth {
		return false
	}
	if v, ok := s.SampleRate.Value(); ok && v != f.SampleRate {
		return false
	}
	if v, ok := s.ChannelMap.Value(); ok && !v.Compatible(f.ChannelMap) {
		return false
	}
	if v, ok := s.SampleType.Value(); ok && v != f.SampleType {
		return false
	}
	if v, ok := s.ByteOrder.Value(); ok && v != f.ByteOrder {
		return false
	}
	if v, ok := s.Layout.Value(); ok && v != f.Layout {
		return false
	}
	return true
}

// Inherit replaces every Unchanged field of s with the value from f.
func (s Setup) Inherit(f Format) Setup {
	s.BitDepth = s.BitDepth.inherit(f.BitDepth)
	s.SampleRate = s.SampleRate.inherit(f.SampleRate)
	s.ChannelMap = s.ChannelMap.inherit(f.ChannelMap)
	return s
}

// AcceptsAny reports whether any of setups accepts f.
func AcceptsAny(setups []Setup, f Format) bool {
	for _, s := range setups {
		if s.Accepts(f) {
			return true
		}
	}
	return false
}

func (s Setup) String() string {
	return fmt.Sprintf("{bits:%s rate:%s map:%s type:%s order:%s layout:%s}",
		s.BitDepth, s.SampleRate, s.ChannelMap, s.SampleType, s.ByteOrder, s.Layout)
}
