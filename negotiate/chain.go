// SPDX-License-Identifier: EPL-2.0

package negotiate

import "github.com/ik5/audpipe/audio"

// Chain lists the kinds of dst and every node upstream of it, dst first and
// the node nearest the source last.
func Chain(dst audio.Destination) []audio.Kind {
	kinds := []audio.Kind{dst.Kind()}

	up := dst.Upstream()
	for up != nil {
		kinds = append(kinds, up.Kind())
		d, ok := up.(audio.Destination)
		if !ok {
			break
		}
		up = d.Upstream()
	}
	return kinds
}

// Adapters returns the adapter kinds between dst and its source, nearest
// the source first.
func Adapters(dst audio.Destination) []audio.Kind {
	chain := Chain(dst)

	var out []audio.Kind
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].IsAdapter() {
			out = append(out, chain[i])
		}
	}
	return out
}
