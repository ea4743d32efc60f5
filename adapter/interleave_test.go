// SPDX-License-Identifier: EPL-2.0

package adapter

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/internal/audiotest"
)

func TestInterleave_RoundTripIsBitExact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    format.Format
	}{
		{"8-bit", pcm(8, 8000, format.ChannelMapStereo)},
		{"16-bit", pcm(16, 8000, format.ChannelMapSurround51)},
		{"24-bit big endian", func() format.Format {
			f := pcm(24, 8000, format.ChannelMapQuad)
			f.ByteOrder = format.BigEndian
			return f
		}()},
		{"32-bit float", float32Format(8000, format.ChannelMapStereo)},
		{"64-bit int", pcm(64, 8000, format.UnknownChannelMap(3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			planar := tt.f.WithLayout(format.Planar)

			want := drainInts(t, audiotest.NewFormatSource(tt.f, 257, audiotest.Steps()), tt.f, 64)
			wantFloat, err := audiotest.ReadAll(audiotest.NewFormatSource(tt.f, 257, audiotest.Steps()), tt.f, 64)
			if err != nil {
				t.Fatal(err)
			}

			src := audiotest.NewFormatSource(tt.f, 257, audiotest.Steps())

			d := NewDeinterleaver()
			if err := d.SetOutputFormat(planar); err != nil {
				t.Fatal(err)
			}
			if err := d.ConnectInput(src, tt.f); err != nil {
				t.Fatal(err)
			}

			i := NewInterleaver()
			if err := i.SetOutputFormat(tt.f); err != nil {
				t.Fatal(err)
			}
			if err := i.ConnectInput(d, planar); err != nil {
				t.Fatal(err)
			}

			if tt.f.SampleType == format.Float {
				got, err := audiotest.ReadAll(i, tt.f, 100)
				if err != nil {
					t.Fatal(err)
				}
				if diff := cmp.Diff(wantFloat, got); diff != "" {
					t.Errorf("round trip changed samples (-want +got):\n%s", diff)
				}
				return
			}

			if diff := cmp.Diff(want, drainInts(t, i, tt.f, 100)); diff != "" {
				t.Errorf("round trip changed samples (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeinterleaver_PlacesChannelsInPlanes(t *testing.T) {
	t.Parallel()

	in := pcm(16, 8000, format.ChannelMapStereo)
	out := in.WithLayout(format.Planar)
	src := audiotest.NewFormatSource(in, 3, perChannel(0.5, -0.25))

	d := NewDeinterleaver()
	if err := d.SetOutputFormat(out); err != nil {
		t.Fatal(err)
	}
	if err := d.ConnectInput(src, in); err != nil {
		t.Fatal(err)
	}

	buf := audio.NewBuffer(out, 4)
	if n, _ := d.PerformInto(buf); n != 3 {
		t.Fatalf("PerformInto() n = %d, want 3", n)
	}

	// 0.5 and -0.25 at 16 bits little endian.
	left := []byte{0x00, 0x40, 0x00, 0x40, 0x00, 0x40}
	right := []byte{0x00, 0xe0, 0x00, 0xe0, 0x00, 0xe0}
	if diff := cmp.Diff(left, buf.Plane(0)); diff != "" {
		t.Errorf("left plane mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(right, buf.Plane(1)); diff != "" {
		t.Errorf("right plane mismatch (-want +got):\n%s", diff)
	}
}

func TestInterleaver_Setups(t *testing.T) {
	t.Parallel()

	i := NewInterleaver()
	in, out := i.InputSetups()[0], i.OutputSetups()[0]

	if l, ok := out.Layout.Value(); !ok || l != format.Interleaved {
		t.Errorf("output layout = %v, want interleaved", out.Layout)
	}
	if l, ok := in.Layout.Value(); !ok || l != format.Planar {
		t.Errorf("input layout = %v, want planar", in.Layout)
	}
	if !out.BitDepth.IsUnchanged() || !out.SampleRate.IsUnchanged() || !out.ChannelMap.IsUnchanged() {
		t.Errorf("output setup %v should pass every other field through", out)
	}

	if i.Kind() != audio.KindInterleaver || NewDeinterleaver().Kind() != audio.KindDeinterleaver {
		t.Error("stage kinds are wrong")
	}
}

func TestInterleaver_Rejects(t *testing.T) {
	t.Parallel()

	i := NewInterleaver()
	if err := i.SetOutputFormat(pcm(16, 8000, format.ChannelMapStereo).WithLayout(format.Planar)); !errors.Is(err, audio.ErrIncompatibleFormat) {
		t.Errorf("SetOutputFormat(planar) error = %v, want ErrIncompatibleFormat", err)
	}

	out := pcm(16, 8000, format.ChannelMapStereo)
	if err := i.SetOutputFormat(out); err != nil {
		t.Fatal(err)
	}
	// Width differs, so this is not a pure layout change.
	in := pcm(24, 8000, format.ChannelMapStereo).WithLayout(format.Planar)
	err := i.ConnectInput(audiotest.NewFormatSource(in, 1, audiotest.Silence()), in)
	if !errors.Is(err, audio.ErrIncompatibleFormat) {
		t.Errorf("ConnectInput() error = %v, want ErrIncompatibleFormat", err)
	}
}

func TestLayoutKernel_Sizes(t *testing.T) {
	t.Parallel()

	for _, layout := range []format.Layout{format.Interleaved, format.Planar} {
		for size := range 10 {
			_, ok := layoutKernel(layout, size)
			want := size == 1 || size == 2 || size == 3 || size == 4 || size == 8
			if ok != want {
				t.Errorf("layoutKernel(%v, %d) ok = %v, want %v", layout, size, ok, want)
			}
		}
	}
}

func TestInterleave_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	in := pcm(24, 48000, format.ChannelMapSurround51).WithLayout(format.Planar)
	out := in.WithLayout(format.Interleaved)
	src := audiotest.NewFormatSource(in, math.MaxInt, audiotest.Silence())

	i := NewInterleaver()
	_ = i.SetOutputFormat(out)
	_ = i.ConnectInput(src, in)
	buf := audio.NewBuffer(out, 256)
	_, _ = i.PerformInto(buf)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = i.PerformInto(buf)
	})
	if allocs > 0 {
		t.Errorf("PerformInto allocated %v times, want 0", allocs)
	}
}

func BenchmarkDeinterleave16(b *testing.B) {
	in := pcm(16, 48000, format.ChannelMapStereo)
	out := in.WithLayout(format.Planar)
	src := audiotest.NewFormatSource(in, math.MaxInt, audiotest.Silence())

	d := NewDeinterleaver()
	_ = d.SetOutputFormat(out)
	_ = d.ConnectInput(src, in)
	buf := audio.NewBuffer(out, 1024)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = d.PerformInto(buf)
	}
}
