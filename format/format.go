// SPDX-License-Identifier: EPL-2.0

package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// SampleType is the numeric representation of a sample.
type SampleType uint8

const (
	SignedInt SampleType = iota
	Float
)

func (t SampleType) String() string {
	if t == Float {
		return "float"
	}
	return "int"
}

// ByteOrder is the in-memory byte order of a multi-byte sample.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// Binary returns the matching encoding/binary byte order.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// Layout is the arrangement of channels in a buffer.
type Layout uint8

const (
	// Interleaved stores all channels of a frame next to each other in one plane.
	Interleaved Layout = iota
	// Planar stores each channel in its own plane.
	Planar
)

func (l Layout) String() string {
	if l == Planar {
		return "planar"
	}
	return "interleaved"
}

var (
	errBitDepth   = errors.New("unsupported bit depth")
	errFloatDepth = errors.New("float samples must be 32 or 64 bits")
	errRate       = errors.New("sample rate must be positive and finite")
	errChannels   = errors.New("channel map has no channels")
)

// Format is one concrete, fully resolved set of audio parameters.
type Format struct {
	BitDepth   int
	SampleRate float64
	ChannelMap ChannelMap
	SampleType SampleType
	ByteOrder  ByteOrder
	Layout     Layout
}

// Channels returns the channel count derived from the channel map.
func (f Format) Channels() int { return f.ChannelMap.Channels() }

// BytesPerSample returns the size of a single sample of one channel.
func (f Format) BytesPerSample() int { return f.BitDepth / 8 }

// BytesPerFrame returns (bits/8) * channels.
func (f Format) BytesPerFrame() int { return f.BytesPerSample() * f.Channels() }

// Interleaved reports whether f uses a single interleaved plane.
func (f Format) Interleaved() bool { return f.Layout == Interleaved }

// Validate reports whether f describes a layout that can be stored.
func (f Format) Validate() error {
	switch f.BitDepth {
	case 8, 16, 24, 32, 64:
	default:
		return fmt.Errorf("%w: %d", errBitDepth, f.BitDepth)
	}
	if f.SampleType == Float && f.BitDepth != 32 && f.BitDepth != 64 {
		return fmt.Errorf("%w: %d", errFloatDepth, f.BitDepth)
	}
	if f.SampleRate <= 0 || math.IsInf(f.SampleRate, 0) || math.IsNaN(f.SampleRate) {
		return fmt.Errorf("%w: %v", errRate, f.SampleRate)
	}
	if f.Channels() == 0 {
		return errChannels
	}
	return nil
}

// WithChannelMap returns a copy of f using channel map m.
func (f Format) WithChannelMap(m ChannelMap) Format {
	f.ChannelMap = m
	return f
}

// WithLayout returns a copy of f using layout l.
func (f Format) WithLayout(l Layout) Format {
	f.Layout = l
	return f
}

func (f Format) String() string {
	return fmt.Sprintf("{%d-bit %s %s-endian %gHz %s %s}",
		f.BitDepth, f.SampleType, f.ByteOrder, f.SampleRate, f.ChannelMap, f.Layout)
}
