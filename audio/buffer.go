// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/audpipe/format"
)

// Buffer owns sample storage for one Format. Interleaved buffers have a
// single plane; planar buffers have one plane per channel. The number of
// valid frames is tracked separately from the allocated capacity.
type Buffer struct {
	format   format.Format
	planes   [][]byte
	frames   int
	capacity int
}

// NewBuffer allocates a buffer holding up to capacity frames of f.
func NewBuffer(f format.Format, capacity int) *Buffer {
	b := &Buffer{format: f, capacity: -1}
	b.Resize(capacity)
	return b
}

// EnsureBuffer returns b if it already stores f, resized to capacity and
// emptied, or a new buffer otherwise.
func EnsureBuffer(b *Buffer, f format.Format, capacity int) *Buffer {
	if b == nil || b.format != f {
		return NewBuffer(f, capacity)
	}
	b.Resize(capacity)
	b.frames = 0
	return b
}

func (b *Buffer) Format() format.Format { return b.format }
func (b *Buffer) Capacity() int         { return b.capacity }
func (b *Buffer) Frames() int           { return b.frames }

// SetFrames marks the first n frames valid, clamped to the capacity.
func (b *Buffer) SetFrames(n int) {
	b.frames = min(max(n, 0), b.capacity)
}

// Resize changes the capacity, reusing the existing storage when it is large
// enough. Nothing happens when the capacity already matches.
func (b *Buffer) Resize(capacity int) {
	capacity = max(capacity, 0)
	if capacity == b.capacity {
		return
	}

	count := 1
	stride := b.format.BytesPerFrame()
	if !b.format.Interleaved() {
		count = b.format.Channels()
		stride = b.format.BytesPerSample()
	}

	if len(b.planes) != count {
		b.planes = make([][]byte, count)
	}
	size := capacity * stride
	for i, p := range b.planes {
		if cap(p) >= size {
			b.planes[i] = p[:size]
		} else {
			b.planes[i] = make([]byte, size)
		}
	}

	b.capacity = capacity
	b.frames = min(b.frames, capacity)
}

// Planes returns write views covering the full capacity.
func (b *Buffer) Planes() [][]byte { return b.planes }

// Plane returns the valid bytes of plane i.
func (b *Buffer) Plane(i int) []byte {
	stride := b.format.BytesPerSample()
	if b.format.Interleaved() {
		stride = b.format.BytesPerFrame()
	}
	return b.planes[i][:b.frames*stride]
}

// Sample returns the bytes of channel ch in frame.
func (b *Buffer) Sample(frame, ch int) []byte {
	size := b.format.BytesPerSample()
	if b.format.Interleaved() {
		off := (frame*b.format.Channels() + ch) * size
		return b.planes[0][off : off+size : off+size]
	}
	off := frame * size
	return b.planes[ch][off : off+size : off+size]
}

// CheckFormat reports ErrBufferFormat unless b stores f. Channel maps only
// need to be compatible.
func (b *Buffer) CheckFormat(f format.Format) error {
	got := b.format
	if got.ChannelMap.Compatible(f.ChannelMap) {
		got.ChannelMap = f.ChannelMap
	}
	if got != f {
		return fmt.Errorf("%w: buffer is %v, connection is %v", ErrBufferFormat, b.format, f)
	}
	return nil
}
