// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/audpipe/formats/aiff"
)

// Example_invalidInput shows the error for input that is not AIFF.
func Example_invalidInput() {
	_, err := aiff.Decoder{}.Decode(bytes.NewReader([]byte("RIFF....WAVE")))
	if errors.Is(err, aiff.ErrNotAiffFile) {
		fmt.Println("not an AIFF file")
	}
	// Output: not an AIFF file
}
