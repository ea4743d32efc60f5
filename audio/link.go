// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"

	"github.com/ik5/audpipe/format"
)

// Link holds the single upstream of a Destination together with the agreed
// input format. Embedding it gives a node bind-once semantics and the
// default propagation of Reset, Seek and Requirements.
type Link struct {
	upstream Source
	format   format.Format
}

// Bind connects upstream with format f. A Link is bound at most once.
func (l *Link) Bind(upstream Source, f format.Format) error {
	if upstream == nil {
		return fmt.Errorf("%w: nil upstream", ErrNotConnected)
	}
	if l.upstream != nil {
		return ErrAlreadyConnected
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	l.upstream = upstream
	l.format = f
	return nil
}

func (l *Link) Upstream() Source { return l.upstream }

// Connected reports whether Bind succeeded.
func (l *Link) Connected() bool { return l.upstream != nil }

// InputFormat returns the format agreed with the upstream.
func (l *Link) InputFormat() format.Format { return l.format }

// Pull asks the upstream for one block.
func (l *Link) Pull(buf *Buffer) (int, error) {
	if l.upstream == nil {
		return 0, ErrNotConnected
	}
	return l.upstream.PerformInto(buf)
}

func (l *Link) Reset() error {
	if l.upstream == nil {
		return nil
	}
	return l.upstream.Reset()
}

func (l *Link) Seek(pos time.Duration) error {
	if l.upstream == nil {
		return nil
	}
	return l.upstream.Seek(pos)
}

func (l *Link) Requirements() Requirements {
	if l.upstream == nil {
		return DefaultRequirements()
	}
	return l.upstream.Requirements()
}
