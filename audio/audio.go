// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ik5/audpipe/format"
)

// Kind tags the closed set of pipeline node variants.
type Kind uint8

const (
	KindSource Kind = iota
	KindDestination
	KindChannelMapper
	KindConverter
	KindInterleaver
	KindDeinterleaver
)

var kindNames = [...]string{
	KindSource:        "source",
	KindDestination:   "destination",
	KindChannelMapper: "channel mapper",
	KindConverter:     "converter",
	KindInterleaver:   "interleaver",
	KindDeinterleaver: "deinterleaver",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsAdapter reports whether k is one of the stages the negotiation engine
// inserts.
func (k Kind) IsAdapter() bool { return k >= KindChannelMapper && k <= KindDeinterleaver }

// Source produces audio. Every node with an output implements it, adapters
// included.
type Source interface {
	Kind() Kind
	// OutputSetups lists the formats the node can produce, most preferred
	// first. Never empty.
	OutputSetups() []format.Setup
	// SetOutputFormat fixes the output once the downstream side has decided.
	SetOutputFormat(f format.Format) error
	// PerformInto pulls one block, writing up to buf.Capacity() frames, and
	// returns the number of frames written. io.EOF marks the end of data and
	// may accompany n > 0.
	PerformInto(buf *Buffer) (int, error)
	Reset() error
	Seek(pos time.Duration) error
	Requirements() Requirements
}

// Destination consumes audio from exactly one upstream Source.
type Destination interface {
	Kind() Kind
	// InputSetups lists the formats the node accepts, most preferred first.
	// Never empty.
	InputSetups() []format.Setup
	// ConnectInput binds upstream and the agreed format. A node is bound at
	// most once.
	ConnectInput(upstream Source, f format.Format) error
	Upstream() Source
}

// Adapter transforms audio and has both sides.
type Adapter interface {
	Source
	Destination
}

// Sink is a Destination that consumes the blocks pulled from its upstream.
type Sink interface {
	Destination
	WriteBuffer(buf *Buffer) error
	Close() error
}

// Requirements are buffer size constraints declared by a node.
type Requirements struct {
	// FrameGranularity is the multiple every block size must be.
	FrameGranularity int
	// MinimumFrames is the smallest block the node can serve.
	MinimumFrames int
}

// DefaultRequirements places no constraint on block sizes.
func DefaultRequirements() Requirements {
	return Requirements{FrameGranularity: 1}
}

// Merge returns requirements satisfying both r and o.
func (r Requirements) Merge(o Requirements) Requirements {
	return Requirements{
		FrameGranularity: lcm(max(r.FrameGranularity, 1), max(o.FrameGranularity, 1)),
		MinimumFrames:    max(r.MinimumFrames, o.MinimumFrames),
	}
}

// Frames rounds n up until it satisfies r.
func (r Requirements) Frames(n int) int {
	n = max(n, r.MinimumFrames, 1)
	g := max(r.FrameGranularity, 1)
	if rem := n % g; rem != 0 {
		n += g - rem
	}
	return n
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int { return a / gcd(a, b) * b }

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format names, such as file extensions, to Decoders. Names
// are case insensitive and a leading dot is ignored, so filepath.Ext output
// can be passed directly. It is built by the caller and passed to whoever
// needs it; it is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, "."))
}

// Register adds d under every given name, replacing earlier entries.
func (r *Registry) Register(d Decoder, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range names {
		r.decoders[registryKey(n)] = d
	}
}

func (r *Registry) Get(name string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.decoders[registryKey(name)]
	return d, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.decoders))
}

// Decode opens rd with the decoder registered under name.
func (r *Registry) Decode(name string, rd io.Reader) (Source, error) {
	d, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, registryKey(name))
	}
	return d.Decode(rd)
}
