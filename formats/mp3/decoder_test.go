// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/utils"
)

// mockMP3Reader serves 16-bit stereo PCM the way gomp3.Decoder does, at
// most chunk bytes per Read.
type mockMP3Reader struct {
	*bytes.Reader
	sampleRate int
	chunk      int
	err        error
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.chunk > 0 && len(p) > m.chunk {
		p = p[:m.chunk]
	}
	return m.Reader.Read(p)
}

func newMock(rate, chunk int, samples ...int16) *mockMP3Reader {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return &mockMP3Reader{Reader: bytes.NewReader(data), sampleRate: rate, chunk: chunk}
}

func readAll(t *testing.T, src *Source, block int) []int64 {
	t.Helper()

	buf := audio.NewBuffer(src.Format(), block)
	c := utils.NewCodec(src.Format())

	var out []int64
	for range 100000 {
		n, err := src.PerformInto(buf)
		for fr := range n {
			out = append(out, c.Int(buf.Sample(fr, 0)), c.Int(buf.Sample(fr, 1)))
		}
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("PerformInto() error = %v", err)
		}
	}
	t.Fatal("PerformInto() never returned io.EOF")
	return nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not MP3 data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error for invalid data")
			}
		})
	}
}

func TestSource_NativeFormat(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{8000, 22050, 44100, 48000} {
		src := newSource(newMock(rate, 0))
		want := format.Format{
			BitDepth:   16,
			SampleRate: float64(rate),
			ChannelMap: format.ChannelMapStereo,
			SampleType: format.SignedInt,
			ByteOrder:  format.LittleEndian,
			Layout:     format.Interleaved,
		}
		if diff := cmp.Diff(want, src.Format()); diff != "" {
			t.Errorf("Format() at %d Hz mismatch (-want +got):\n%s", rate, diff)
		}
	}
}

func TestSource_Samples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		chunk int
		block int
	}{
		{"whole reads", 0, 16},
		{"short reads", 3, 16},
		{"small blocks", 0, 1},
	}

	samples := []int16{-32768, 32767, 0, -1, 100, -100, 12345, -12345}
	want := make([]int64, len(samples))
	for i, s := range samples {
		want[i] = int64(s)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newSource(newMock(44100, tt.chunk, samples...))
			if diff := cmp.Diff(want, readAll(t, src, tt.block)); diff != "" {
				t.Errorf("samples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSource_DropsTrailingPartialFrame(t *testing.T) {
	t.Parallel()

	// Three samples: one full stereo frame and half of another.
	src := newSource(newMock(8000, 0, 1, 2, 3))
	buf := audio.NewBuffer(src.Format(), 4)

	n, err := src.PerformInto(buf)
	if n != 1 || err != io.EOF {
		t.Errorf("PerformInto() = %d, %v; want 1, io.EOF", n, err)
	}
	if buf.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", buf.Frames())
	}
}

func TestSource_SeekAndReset(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 2*1000)
	for i := range samples {
		samples[i] = int16(i / 2)
	}
	src := newSource(newMock(1000, 0, samples...))

	if err := src.Seek(250 * time.Millisecond); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	got := readAll(t, src, 100)
	if len(got) != 2*750 || got[0] != 250 || got[1] != 250 {
		t.Errorf("after Seek(250ms) got %d samples starting %v, want 1500 starting at frame 250", len(got), got[:min(2, len(got))])
	}

	if err := src.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got := readAll(t, src, 100); len(got) != 2000 || got[0] != 0 {
		t.Errorf("after Reset() got %d samples, want 2000 from the start", len(got))
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	m := newMock(8000, 0, 1, 2)
	m.err = boom
	src := newSource(m)

	if _, err := src.PerformInto(audio.NewBuffer(src.Format(), 4)); !errors.Is(err, boom) {
		t.Errorf("PerformInto() error = %v, want %v", err, boom)
	}

	mono := src.Format().WithChannelMap(format.ChannelMapMono)
	if _, err := src.PerformInto(audio.NewBuffer(mono, 4)); !errors.Is(err, audio.ErrBufferFormat) {
		t.Errorf("PerformInto(mono buffer) error = %v, want ErrBufferFormat", err)
	}
}

func TestSource_ZeroAllocs(t *testing.T) {
	m := newMock(44100, 0, make([]int16, 4096)...)
	src := newSource(m)
	buf := audio.NewBuffer(src.Format(), 512)

	allocs := testing.AllocsPerRun(100, func() {
		m.Seek(0, io.SeekStart)
		src.PerformInto(buf)
	})
	if allocs != 0 {
		t.Errorf("PerformInto() allocates %.1f times per call, want 0", allocs)
	}
}

func BenchmarkSource_PerformInto(b *testing.B) {
	m := newMock(44100, 0, make([]int16, 2*44100)...)
	src := newSource(m)
	buf := audio.NewBuffer(src.Format(), 1024)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := src.PerformInto(buf); err == io.EOF {
			m.Seek(0, io.SeekStart)
		}
	}
}
