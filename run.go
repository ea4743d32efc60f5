// SPDX-License-Identifier: EPL-2.0

package audpipe

import (
	"fmt"
	"io"

	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/negotiate"
)

// inputFormat is implemented by sinks built on audio.Link.
type inputFormat interface {
	InputFormat() format.Format
}

// Run pulls blocks of about blockFrames frames from the upstream of sink and
// writes them to sink until the chain is drained. It returns the number of
// frames written. The sink is not closed.
func Run(sink audio.Sink, blockFrames int) (int64, error) {
	in, ok := sink.(inputFormat)
	if !ok {
		return 0, fmt.Errorf("%w: %s does not report its input format", audio.ErrUnimplemented, sink.Kind())
	}
	return run(sink, in.InputFormat(), blockFrames)
}

func run(sink audio.Sink, f format.Format, blockFrames int) (int64, error) {
	up := sink.Upstream()
	if up == nil {
		return 0, audio.ErrNotConnected
	}

	buf := audio.NewBuffer(f, up.Requirements().Frames(blockFrames))
	var total int64
	for {
		n, err := up.PerformInto(buf)
		if n > 0 {
			if werr := sink.WriteBuffer(buf); werr != nil {
				return total, fmt.Errorf("writing block: %w", werr)
			}
			total += int64(n)
		}

		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("pulling block: %w", err)
		}
	}
}

// Transcode connects src to sink through a negotiation engine built from
// opts, then runs the pipeline. preferred fills whatever neither side
// specifies.
func Transcode(src audio.Source, sink audio.Sink, preferred format.Format, blockFrames int, opts ...negotiate.Option) (int64, error) {
	f, err := negotiate.New(opts...).Connect(src, sink, preferred)
	if err != nil {
		return 0, err
	}
	return run(sink, f, blockFrames)
}
