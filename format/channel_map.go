// SPDX-License-Identifier: EPL-2.0

package format

import "fmt"

// ChannelMap is a tag identifying a channel count and its speaker
// assignment. The high 16 bits hold the layout id, the low 16 bits the
// channel count, so the count can always be derived from the tag.
type ChannelMap uint32

const (
	channelCountMask = 0xffff
	layoutShift      = 16
	unknownLayout    = 0xffff
)

func layoutTag(id uint32, channels uint32) ChannelMap {
	return ChannelMap(id<<layoutShift | channels)
}

// Named channel maps. 5.1 is ordered L R C LFE Ls Rs.
const (
	ChannelMapMono       ChannelMap = 100<<layoutShift | 1
	ChannelMapStereo     ChannelMap = 101<<layoutShift | 2
	ChannelMapQuad       ChannelMap = 108<<layoutShift | 4
	ChannelMapSurround50 ChannelMap = 117<<layoutShift | 5
	ChannelMapSurround51 ChannelMap = 121<<layoutShift | 6
	ChannelMapSurround71 ChannelMap = 128<<layoutShift | 8
)

var channelMapNames = map[ChannelMap]string{
	ChannelMapMono:       "mono",
	ChannelMapStereo:     "stereo",
	ChannelMapQuad:       "quad",
	ChannelMapSurround50: "5.0",
	ChannelMapSurround51: "5.1",
	ChannelMapSurround71: "7.1",
}

// UnknownChannelMap returns the escape tag for n channels with no speaker
// assignment.
func UnknownChannelMap(n int) ChannelMap {
	return layoutTag(unknownLayout, uint32(n)&channelCountMask)
}

// DefaultChannelMap returns the named map for n channels, or the unknown
// escape when no named map has that many channels.
func DefaultChannelMap(n int) ChannelMap {
	switch n {
	case 1:
		return ChannelMapMono
	case 2:
		return ChannelMapStereo
	case 4:
		return ChannelMapQuad
	case 6:
		return ChannelMapSurround51
	case 8:
		return ChannelMapSurround71
	}
	return UnknownChannelMap(n)
}

// Channels returns the channel count encoded in the tag.
func (m ChannelMap) Channels() int { return int(m & channelCountMask) }

// IsUnknown reports whether m is the unknown-N-channel escape.
func (m ChannelMap) IsUnknown() bool { return m>>layoutShift == unknownLayout }

// Compatible reports whether data laid out as m can be handed to a node
// expecting o without remapping: the maps are identical, or they carry the
// same channel count and either one is the unknown escape.
func (m ChannelMap) Compatible(o ChannelMap) bool {
	if m == o {
		return true
	}
	if m.Channels() != o.Channels() {
		return false
	}
	return m.IsUnknown() || o.IsUnknown()
}

// Concrete returns whichever of m and o carries a speaker assignment. The
// two must be Compatible.
func (m ChannelMap) Concrete(o ChannelMap) ChannelMap {
	if m.IsUnknown() {
		return o
	}
	return m
}

func (m ChannelMap) String() string {
	if name, ok := channelMapNames[m]; ok {
		return name
	}
	if m.IsUnknown() {
		return fmt.Sprintf("unknown(%d)", m.Channels())
	}
	return fmt.Sprintf("layout(%d,%d)", uint32(m)>>layoutShift, m.Channels())
}
