// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/formats/wav"
	"github.com/ik5/audpipe/internal/audiotest"
)

// Example_roundTrip writes a second of stereo audio and reads it back.
func Example_roundTrip() {
	file, err := os.CreateTemp("", "example-*.wav")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.Remove(file.Name())
	defer file.Close()

	f := format.Format{BitDepth: 16, SampleRate: 8000, ChannelMap: format.ChannelMapStereo}
	src := audiotest.NewFormatSource(f, 8000, audiotest.Sine(8000, 440))

	w, _ := wav.NewWriter(file)
	if err := w.ConnectInput(src, f); err != nil {
		fmt.Println(err)
		return
	}

	buf := audio.NewBuffer(f, 1024)
	for {
		n, err := src.PerformInto(buf)
		if n > 0 {
			w.WriteBuffer(buf)
		}
		if err == io.EOF {
			break
		}
	}
	w.Close()

	file.Seek(0, io.SeekStart)
	dec, err := wav.Open(file)
	if err != nil {
		fmt.Println(err)
		return
	}

	frames := 0
	for {
		n, err := dec.PerformInto(buf)
		frames += n
		if err == io.EOF {
			break
		}
	}

	fmt.Println(dec.Format())
	fmt.Println("frames:", frames)
	// Output:
	// {16-bit int little-endian 8000Hz stereo interleaved}
	// frames: 8000
}

// Example_errorNotWAV shows the error for input that is not a WAV file.
func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file")))
	if err == wav.ErrNotWavFile {
		fmt.Println("Detected: Not a valid WAV file")
	}
	// Output: Detected: Not a valid WAV file
}
