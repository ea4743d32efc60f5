// SPDX-License-Identifier: EPL-2.0

package audpipe

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/internal/audiotest"
)

func TestResampleToMono16_Basic(t *testing.T) {
	t.Parallel()

	// 1 second of stereo audio at 44.1kHz
	src := audiotest.NewFormatSource(floatFormat(44100, format.ChannelMapStereo), 44100, audiotest.Sine(44100, 440))

	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)
	if err != nil {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}
	if rate != 8000 {
		t.Errorf("ResampleToMono16() rate = %d, want 8000", rate)
	}

	expected, tolerance := 8000, 10
	if len(pcm16) < expected-tolerance || len(pcm16) > expected+tolerance {
		t.Errorf("ResampleToMono16() got %d samples, want ≈%d (±%d)", len(pcm16), expected, tolerance)
	}

	peak := 0
	for _, s := range pcm16 {
		peak = max(peak, int(math.Abs(float64(s))))
	}
	if peak < 30000 {
		t.Errorf("peak = %d, want a full scale tone", peak)
	}
}

func TestResampleToMono16_AlreadyMono(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFormatSource(pcm(16, 16000, format.ChannelMapMono), 16000, audiotest.Constant(0.5))

	pcm16, _, err := ResampleToMono16(src, 8000, 4096)
	if err != nil {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}
	if len(pcm16) < 7990 || len(pcm16) > 8010 {
		t.Errorf("ResampleToMono16() got %d samples, want ≈8000", len(pcm16))
	}

	// With constant 0.5 input, all samples should be around 16384.
	for i, s := range pcm16 {
		if math.Abs(float64(s)-16384) > 1000 {
			t.Errorf("pcm16[%d] = %d, want ≈16384", i, s)
			break
		}
	}
}

func TestResampleToMono16_SameRateIsExact(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFormatSource(pcm(16, 8000, format.ChannelMapMono), 3000, audiotest.Steps())

	pcm16, _, err := ResampleToMono16(src, 8000, 256)
	if err != nil {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}
	if len(pcm16) != 3000 {
		t.Fatalf("ResampleToMono16() got %d samples, want 3000", len(pcm16))
	}

	wave := audiotest.Steps()
	for i, s := range pcm16 {
		if want := int16(math.Round(wave(i, 0) * 32768)); s != want {
			t.Fatalf("pcm16[%d] = %d, want %d", i, s, want)
		}
	}
}

func TestResampleToMono16_Downmix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cm   format.ChannelMap
	}{
		{"stereo", format.ChannelMapStereo},
		{"5.1", format.ChannelMapSurround51},
		{"unknown three channels", format.UnknownChannelMap(3)},
		{"7.1", format.ChannelMapSurround71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewFormatSource(pcm(16, 8000, tt.cm), 800, audiotest.Constant(0.6))

			pcm16, _, err := ResampleToMono16(src, 8000, 128)
			if err != nil {
				t.Fatalf("ResampleToMono16() error = %v", err)
			}
			if len(pcm16) != 800 {
				t.Fatalf("ResampleToMono16() got %d samples, want 800", len(pcm16))
			}
			for i, s := range pcm16 {
				if s < 19660 || s > 19662 {
					t.Fatalf("pcm16[%d] = %d, want the channel average 19661", i, s)
				}
			}
		})
	}
}

func TestResampleToMono16_Silence(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFormatSource(pcm(24, 48000, format.ChannelMapStereo), 4800, audiotest.Silence())

	pcm16, _, err := ResampleToMono16(src, 16000, 1024)
	if err != nil {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}
	for i, s := range pcm16 {
		if s != 0 {
			t.Fatalf("pcm16[%d] = %d, want 0", i, s)
		}
	}
}

func TestResampleToMono16_EmptySource(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFormatSource(pcm(16, 44100, format.ChannelMapStereo), 0, audiotest.Silence())

	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)
	if err != nil {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}
	if len(pcm16) != 0 || rate != 8000 {
		t.Errorf("ResampleToMono16() = %d samples at %d Hz, want none at 8000", len(pcm16), rate)
	}
}

func TestResampleToMono16_VariousRates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sourceRate float64
		targetRate int
	}{
		{"44.1kHz -> 8kHz", 44100, 8000},
		{"48kHz -> 16kHz", 48000, 16000},
		{"8kHz -> 16kHz", 8000, 16000},
		{"22.05kHz -> 44.1kHz", 22050, 44100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// 0.1 seconds of stereo audio
			frames := int(tt.sourceRate / 10)
			src := audiotest.NewFormatSource(pcm(16, tt.sourceRate, format.ChannelMapStereo), frames, audiotest.Sine(tt.sourceRate, 440))

			pcm16, _, err := ResampleToMono16(src, tt.targetRate, 1024)
			if err != nil {
				t.Fatalf("ResampleToMono16() error = %v", err)
			}

			expected := tt.targetRate / 10
			if d := len(pcm16) - expected; d < -5 || d > 5 {
				t.Errorf("got %d samples, want ≈%d", len(pcm16), expected)
			}
		})
	}
}

func TestResampleToMono16_Clamping(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFormatSource(floatFormat(8000, format.ChannelMapMono), 100, audiotest.Constant(1.5))

	pcm16, _, err := ResampleToMono16(src, 8000, 64)
	if err != nil {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}
	for i, s := range pcm16 {
		if s != math.MaxInt16 {
			t.Fatalf("pcm16[%d] = %d, want clamped to %d", i, s, math.MaxInt16)
		}
	}
}

func TestResampleToMono16_Errors(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFormatSource(pcm(16, 8000, format.ChannelMapMono), 10, audiotest.Silence())
	if _, _, err := ResampleToMono16(src, 0, 64); !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("ResampleToMono16(rate 0) error = %v, want ErrInvalidFormat", err)
	}

	boom := errors.New("read failed")
	src = audiotest.NewFormatSource(pcm(16, 8000, format.ChannelMapStereo), 10, audiotest.Silence())
	src.Err = boom
	if _, _, err := ResampleToMono16(src, 8000, 64); !errors.Is(err, boom) {
		t.Errorf("ResampleToMono16() error = %v, want %v", err, boom)
	}
}

func BenchmarkResampleToMono16(b *testing.B) {
	f := floatFormat(44100, format.ChannelMapStereo)

	b.ReportAllocs()
	for b.Loop() {
		src := audiotest.NewFormatSource(f, 44100, audiotest.Sine(44100, 440))
		if _, _, err := ResampleToMono16(src, 8000, 4096); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResampleToMono16_Upsample(b *testing.B) {
	f := pcm(16, 8000, format.ChannelMapMono)

	b.ReportAllocs()
	for b.Loop() {
		src := audiotest.NewFormatSource(f, 8000, audiotest.Sine(8000, 440))
		if _, _, err := ResampleToMono16(src, 48000, 4096); err != nil {
			b.Fatal(err)
		}
	}
}

func TestDownmixTable(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSource(1, audiotest.Silence(),
		format.Setup{ChannelMap: format.Specify(format.UnknownChannelMap(3))},
		format.Setup{ChannelMap: format.Specify(format.ChannelMapSurround51)},
		format.Setup{ChannelMap: format.Specify(format.ChannelMapMono)},
		format.Setup{},
	)

	table, err := downmixTable(src)
	if err != nil {
		t.Fatalf("downmixTable() error = %v", err)
	}

	r, ok := table.Lookup(format.UnknownChannelMap(3), format.ChannelMapMono)
	if !ok {
		t.Fatal("no mix registered for unknown(3) to mono")
	}
	if len(r.Matrix) != 1 || len(r.Matrix[0]) != 3 || math.Abs(r.Matrix[0][1]-1.0/3) > 1e-12 {
		t.Errorf("unknown(3) to mono = %v, want one row of equal weights", r.Matrix)
	}
	if !table.Supports(format.ChannelMapSurround51, format.ChannelMapMono) {
		t.Error("no mix registered for 5.1 to mono")
	}
	if r, _ := table.Lookup(format.ChannelMapStereo, format.ChannelMapMono); r.Matrix[0][0] != 0.5 {
		t.Errorf("stereo to mono = %v, want the default average kept", r.Matrix)
	}
	if table.Supports(format.ChannelMapMono, format.ChannelMapMono) {
		t.Error("mono to mono registered")
	}
}
