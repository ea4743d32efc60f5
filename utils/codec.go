// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audpipe/format"
)

// Codec reads and writes single samples of one sample format.
type Codec struct {
	size  int
	bits  int
	float bool
	big   bool
	order binary.ByteOrder
}

// NewCodec returns the codec for f's bit depth, sample type and byte order.
func NewCodec(f format.Format) Codec {
	return Codec{
		size:  f.BytesPerSample(),
		bits:  f.BitDepth,
		float: f.SampleType == format.Float,
		big:   f.ByteOrder == format.BigEndian,
		order: f.ByteOrder.Binary(),
	}
}

// Size returns the number of bytes per sample.
func (c Codec) Size() int { return c.size }

// IsFloat reports whether samples are floating point.
func (c Codec) IsFloat() bool { return c.float }

// Bits returns the bit depth.
func (c Codec) Bits() int { return c.bits }

// Int decodes a signed integer sample, sign extended to 64 bits.
func (c Codec) Int(b []byte) int64 {
	switch c.size {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(c.order.Uint16(b)))
	case 3:
		var v int32
		if c.big {
			v = int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
		} else {
			v = int32(b[2])<<16 | int32(b[1])<<8 | int32(b[0])
		}
		return int64((v << 8) >> 8)
	case 4:
		return int64(int32(c.order.Uint32(b)))
	case 8:
		return int64(c.order.Uint64(b))
	}
	return 0
}

// PutInt encodes v, truncated to the codec's bit depth.
func (c Codec) PutInt(b []byte, v int64) {
	switch c.size {
	case 1:
		b[0] = byte(v)
	case 2:
		c.order.PutUint16(b, uint16(v))
	case 3:
		if c.big {
			b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
		} else {
			b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
		}
	case 4:
		c.order.PutUint32(b, uint32(v))
	case 8:
		c.order.PutUint64(b, uint64(v))
	}
}

// Float decodes a sample as a value normalized to [-1, 1].
func (c Codec) Float(b []byte) float64 {
	if !c.float {
		return IntToFloat(c.Int(b), c.bits)
	}
	if c.size == 8 {
		return math.Float64frombits(c.order.Uint64(b))
	}
	return float64(math.Float32frombits(c.order.Uint32(b)))
}

// PutFloat encodes a normalized value; integer formats round and clamp.
func (c Codec) PutFloat(b []byte, v float64) {
	switch {
	case !c.float:
		c.PutInt(b, FloatToInt(v, c.bits))
	case c.size == 8:
		c.order.PutUint64(b, math.Float64bits(v))
	default:
		c.order.PutUint32(b, math.Float32bits(float32(v)))
	}
}

// Convert copies one sample from src, encoded by c, to dst, encoded by out.
// Integer to integer conversion stays in the integer domain.
func (c Codec) Convert(out Codec, dst, src []byte) {
	if !c.float && !out.float {
		out.PutInt(dst, ConvertInt(c.Int(src), c.bits, out.bits))
		return
	}
	out.PutFloat(dst, c.Float(src))
}
