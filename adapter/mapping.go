// SPDX-License-Identifier: EPL-2.0

package adapter

import (
	"fmt"
	"math"

	"github.com/ik5/audpipe/format"
)

// Routine derives output channels from input channels. A routing routine
// copies samples and works for any sample format; a mixing routine
// evaluates a coefficient matrix.
type Routine struct {
	// Route[i] is the input channel copied to output channel i.
	Route []int
	// Matrix[i][j] is the weight of input channel j in output channel i.
	Matrix [][]float64
}

// Route returns a routing routine.
func Route(inputs ...int) Routine {
	return Routine{Route: inputs}
}

// Mix returns a mixing routine with one row per output channel.
func Mix(rows ...[]float64) Routine {
	return Routine{Matrix: rows}
}

// IsRouting reports whether r only copies samples.
func (r Routine) IsRouting() bool { return r.Matrix == nil }

func (r Routine) check(from, to format.ChannelMap) error {
	in, out := from.Channels(), to.Channels()

	if r.IsRouting() {
		if len(r.Route) != out {
			return fmt.Errorf("%w: %d routes for %d outputs", ErrInvalidRoutine, len(r.Route), out)
		}
		for _, c := range r.Route {
			if c < 0 || c >= in {
				return fmt.Errorf("%w: input channel %d of %d", ErrInvalidRoutine, c, in)
			}
		}
		return nil
	}

	if len(r.Matrix) != out {
		return fmt.Errorf("%w: %d rows for %d outputs", ErrInvalidRoutine, len(r.Matrix), out)
	}
	for i, row := range r.Matrix {
		if len(row) != in {
			return fmt.Errorf("%w: row %d has %d weights for %d inputs", ErrInvalidRoutine, i, len(row), in)
		}
	}
	return nil
}

type mapping struct {
	from, to format.ChannelMap
}

// MappingTable holds the channel map conversions a ChannelMapper can
// perform. Build it before use; it is not safe for concurrent Register.
type MappingTable struct {
	routines map[mapping]Routine
}

// NewMappingTable returns an empty table.
func NewMappingTable() *MappingTable {
	return &MappingTable{routines: make(map[mapping]Routine)}
}

// Register adds or replaces the routine converting from into to.
func (t *MappingTable) Register(from, to format.ChannelMap, r Routine) error {
	if err := r.check(from, to); err != nil {
		return fmt.Errorf("%v to %v: %w", from, to, err)
	}
	t.routines[mapping{from, to}] = r
	return nil
}

// Lookup returns the routine converting from into to. A single channel
// with no speaker assignment is looked up as mono; wider unknown maps only
// match routines registered for them.
func (t *MappingTable) Lookup(from, to format.ChannelMap) (Routine, bool) {
	if r, ok := t.routines[mapping{from, to}]; ok {
		return r, true
	}
	r, ok := t.routines[mapping{asMono(from), asMono(to)}]
	return r, ok
}

func asMono(m format.ChannelMap) format.ChannelMap {
	if m == format.UnknownChannelMap(1) {
		return format.ChannelMapMono
	}
	return m
}

// Supports reports whether a routine converts from into to.
func (t *MappingTable) Supports(from, to format.ChannelMap) bool {
	_, ok := t.Lookup(from, to)
	return ok
}

// DefaultMappings returns a table with the built-in conversions: mono to
// stereo and quad by duplication, stereo to mono by averaging, and 5.1 to
// stereo with the ITU-R BS.775 downmix scaled to unity gain.
func DefaultMappings() *MappingTable {
	t := NewMappingTable()

	// 5.1 order: L R C LFE Ls Rs. LFE is dropped.
	const k = math.Sqrt2 / 2
	const norm = 1 / (1 + 2*k)

	must(t.Register(format.ChannelMapMono, format.ChannelMapStereo, Route(0, 0)))
	must(t.Register(format.ChannelMapMono, format.ChannelMapQuad, Route(0, 0, 0, 0)))
	must(t.Register(format.ChannelMapStereo, format.ChannelMapMono, Mix([]float64{0.5, 0.5})))
	must(t.Register(format.ChannelMapSurround51, format.ChannelMapStereo, Mix(
		[]float64{norm, 0, k * norm, 0, k * norm, 0},
		[]float64{0, norm, k * norm, 0, 0, k * norm},
	)))
	return t
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
