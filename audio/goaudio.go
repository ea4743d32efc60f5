// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audpipe/utils"
)

// WriteInts stores interleaved integer samples of the given bit depth, as
// produced by the go-audio decoders, from frame 0. It returns the number of
// frames stored, which also becomes the valid frame count.
func (b *Buffer) WriteInts(src []int, bitDepth int) int {
	ch := b.format.Channels()
	frames := min(len(src)/ch, b.capacity)
	c := utils.NewCodec(b.format)

	for fr := range frames {
		for i := range ch {
			v := int64(src[fr*ch+i])
			dst := b.Sample(fr, i)
			if c.IsFloat() {
				c.PutFloat(dst, utils.IntToFloat(v, bitDepth))
			} else {
				c.PutInt(dst, utils.ConvertInt(v, bitDepth, c.Bits()))
			}
		}
	}

	b.frames = frames
	return frames
}

// IntBuffer copies the valid frames into dst as interleaved integers of the
// given bit depth, reusing dst.Data when it is large enough. A nil dst is
// allocated.
func (b *Buffer) IntBuffer(dst *goaudio.IntBuffer, bitDepth int) *goaudio.IntBuffer {
	ch := b.format.Channels()
	n := b.frames * ch

	if dst == nil {
		dst = &goaudio.IntBuffer{}
	}
	if cap(dst.Data) < n {
		dst.Data = make([]int, n)
	}
	dst.Data = dst.Data[:n]
	dst.Format = &goaudio.Format{NumChannels: ch, SampleRate: int(b.format.SampleRate)}
	dst.SourceBitDepth = bitDepth

	c := utils.NewCodec(b.format)
	for fr := range b.frames {
		for i := range ch {
			src := b.Sample(fr, i)
			var v int64
			if c.IsFloat() {
				v = utils.FloatToInt(c.Float(src), bitDepth)
			} else {
				v = utils.ConvertInt(c.Int(src), c.Bits(), bitDepth)
			}
			dst.Data[fr*ch+i] = int(v)
		}
	}
	return dst
}

// WriteFloat32s stores interleaved normalized samples from frame 0 and
// returns the number of frames stored.
func (b *Buffer) WriteFloat32s(src []float32) int {
	ch := b.format.Channels()
	frames := min(len(src)/ch, b.capacity)
	c := utils.NewCodec(b.format)

	for fr := range frames {
		for i := range ch {
			c.PutFloat(b.Sample(fr, i), float64(src[fr*ch+i]))
		}
	}

	b.frames = frames
	return frames
}

// Float32s appends the valid frames to dst as interleaved normalized
// samples.
func (b *Buffer) Float32s(dst []float32) []float32 {
	ch := b.format.Channels()
	c := utils.NewCodec(b.format)

	for fr := range b.frames {
		for i := range ch {
			dst = append(dst, float32(c.Float(b.Sample(fr, i))))
		}
	}
	return dst
}

// PCMReader is implemented by the go-audio wav and aiff decoders.
type PCMReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// IntPump moves interleaved integer frames from a PCMReader into Buffers.
// Short reads that end inside a frame are completed before returning.
type IntPump struct {
	Channels int
	BitDepth int
	// Offset is added to every sample read, for unsigned encodings.
	Offset int

	ints goaudio.IntBuffer
	data []int
}

const skipChunk = 4096

func (p *IntPump) read(r PCMReader, dst []int) (int, bool, error) {
	total := 0
	for total < len(dst) {
		p.ints.Data = dst[total:]
		n, err := r.PCMBuffer(&p.ints)
		total += n
		switch {
		case err == io.EOF:
			return total, true, nil
		case err != nil:
			return total, false, err
		case n == 0:
			return total, true, nil
		}
		if total%p.Channels == 0 {
			break
		}
	}
	return total, false, nil
}

// Fill reads up to buf.Capacity() frames into buf. It returns io.EOF, possibly
// with n > 0, once the reader is exhausted.
func (p *IntPump) Fill(r PCMReader, buf *Buffer) (int, error) {
	want := buf.Capacity() * p.Channels
	if cap(p.data) < want {
		p.data = make([]int, want)
	}
	p.data = p.data[:want]
	p.ints.Format = &goaudio.Format{NumChannels: p.Channels, SampleRate: int(buf.Format().SampleRate)}
	p.ints.SourceBitDepth = p.BitDepth

	got, eof, err := p.read(r, p.data)
	if err != nil {
		return 0, err
	}
	if p.Offset != 0 {
		for i := range got {
			p.data[i] += p.Offset
		}
	}

	n := buf.WriteInts(p.data[:got], p.BitDepth)
	if eof {
		return n, io.EOF
	}
	return n, nil
}

// Skip discards frames, stopping early at the end of the reader.
func (p *IntPump) Skip(r PCMReader, frames int64) error {
	if cap(p.data) < skipChunk*p.Channels {
		p.data = make([]int, skipChunk*p.Channels)
	}

	for frames > 0 {
		chunk := int(min(frames, skipChunk))
		got, eof, err := p.read(r, p.data[:chunk*p.Channels])
		if err != nil || eof {
			return err
		}
		frames -= int64(got / p.Channels)
	}
	return nil
}
