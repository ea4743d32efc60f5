// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
)

// Writer is a pipeline sink encoding integer PCM into a WAV stream. The
// stream header is finalized by Close.
type Writer struct {
	audio.Link

	ws   io.WriteSeeker
	bits int
	rate int
	cm   format.ChannelMap
	enc  *wav.Encoder
	ints *goaudio.IntBuffer
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithBitDepth sets the encoded sample width: 16, 24 or 32 bits.
func WithBitDepth(bits int) WriterOption {
	return func(w *Writer) {
		w.bits = bits
	}
}

// WithSampleRate fixes the encoded sample rate instead of taking the
// upstream's.
func WithSampleRate(rate int) WriterOption {
	return func(w *Writer) {
		w.rate = rate
	}
}

// WithChannelMap fixes the encoded channel map instead of taking the
// upstream's.
func WithChannelMap(cm format.ChannelMap) WriterOption {
	return func(w *Writer) {
		w.cm = cm
	}
}

// NewWriter returns a Writer encoding into ws, 16-bit by default.
func NewWriter(ws io.WriteSeeker, opts ...WriterOption) (*Writer, error) {
	w := &Writer{ws: ws, bits: 16}
	for _, opt := range opts {
		opt(w)
	}

	switch w.bits {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, w.bits)
	}
	if w.rate < 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedWavLayout, w.rate)
	}
	return w, nil
}

func (w *Writer) Kind() audio.Kind { return audio.KindDestination }

// InputSetups fixes the sample encoding. Rate and channels are left to the
// upstream unless set by options.
func (w *Writer) InputSetups() []format.Setup {
	s := format.Setup{
		BitDepth:   format.Specify(w.bits),
		SampleType: format.Some(format.SignedInt),
		ByteOrder:  format.Some(format.LittleEndian),
		Layout:     format.Some(format.Interleaved),
	}
	if w.rate > 0 {
		s.SampleRate = format.Specify(float64(w.rate))
	}
	if w.cm.Channels() > 0 {
		s.ChannelMap = format.Specify(w.cm)
	}
	return []format.Setup{s}
}

func (w *Writer) ConnectInput(up audio.Source, f format.Format) error {
	if !format.AcceptsAny(w.InputSetups(), f) {
		return fmt.Errorf("%w: wav writer cannot encode %v", audio.ErrIncompatibleFormat, f)
	}
	if f.SampleRate != float64(int(f.SampleRate)) {
		return fmt.Errorf("%w: fractional sample rate %v", audio.ErrIncompatibleFormat, f.SampleRate)
	}
	if err := w.Bind(up, f); err != nil {
		return err
	}

	w.enc = wav.NewEncoder(w.ws, int(f.SampleRate), w.bits, f.Channels(), formatPCM)
	return nil
}

func (w *Writer) WriteBuffer(buf *audio.Buffer) error {
	if w.enc == nil {
		return audio.ErrNotConnected
	}
	if err := buf.CheckFormat(w.InputFormat()); err != nil {
		return err
	}
	if buf.Frames() == 0 {
		return nil
	}

	w.ints = buf.IntBuffer(w.ints, w.bits)
	if err := w.enc.Write(w.ints); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}

// Close writes the final header. A Writer that was never connected has
// nothing to finalize.
func (w *Writer) Close() error {
	if w.enc == nil {
		return nil
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}
