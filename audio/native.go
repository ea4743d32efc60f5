// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/ik5/audpipe/format"
)

// Native is embedded by sources that produce exactly one format, such as
// file decoders. It provides everything of Source except PerformInto,
// Reset and Seek.
type Native struct {
	format format.Format
}

// NewNative returns a Native producing f.
func NewNative(f format.Format) Native {
	return Native{format: f}
}

func (n *Native) Kind() Kind                   { return KindSource }
func (n *Native) Format() format.Format        { return n.format }
func (n *Native) Requirements() Requirements   { return DefaultRequirements() }
func (n *Native) OutputSetups() []format.Setup { return []format.Setup{format.SetupOf(n.format)} }

// SetOutputFormat accepts only the native format. Channel maps need only be
// compatible.
func (n *Native) SetOutputFormat(f format.Format) error {
	if !format.SetupOf(n.format).Accepts(f) {
		return fmt.Errorf("%w: source produces %v, asked for %v", ErrIncompatibleFormat, n.format, f)
	}
	return nil
}

// FrameAt converts a stream position to a frame index, never negative.
func (n *Native) FrameAt(pos time.Duration) int64 {
	return max(int64(math.Round(pos.Seconds()*n.format.SampleRate)), 0)
}
