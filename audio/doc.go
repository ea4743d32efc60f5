// SPDX-License-Identifier: EPL-2.0

// Package audio defines the pipeline node model.
//
// A pipeline is a chain of nodes. Every node with an output is a Source;
// every node with an input is a Destination bound to exactly one upstream
// Source. Adapters have both sides. Kind tags which variant a node is.
//
// # Negotiation contract
//
// Before data flows, a Source lists the formats it can produce in
// OutputSetups and a Destination lists what it accepts in InputSetups.
// Once a format is agreed, SetOutputFormat is called on the source and then
// ConnectInput on the destination. The negotiate package drives this.
//
// # Pulling data
//
// Processing is pull based and synchronous. A sink asks its upstream for
// one block at a time:
//
//	buf := audio.NewBuffer(f, up.Requirements().Frames(1024))
//	for {
//	    n, err := up.PerformInto(buf)
//	    // use buf.Frames() == n frames
//	    if err == io.EOF {
//	        break
//	    }
//	}
//
// io.EOF may arrive together with the last frames. Reset and Seek cascade
// towards the source of the chain.
//
// # Buffers
//
// Buffer owns storage for one format: a single plane for interleaved
// layouts, one plane per channel for planar ones. The helpers in this
// package move samples between Buffers and the go-audio IntBuffer, and
// between Buffers and normalized float32 slices.
//
// # Building nodes
//
// Link gives a Destination its bind-once upstream and the default Reset,
// Seek and Requirements propagation. Native does the same for sources that
// only ever produce one format, such as file decoders.
//
// # Decoder registry
//
// Registry maps format names to Decoders. It is built by the caller and
// passed to whoever needs it:
//
//	registry := audio.NewRegistry()
//	registry.Register(wav.Decoder{}, "wav")
//	registry.Register(aiff.Decoder{}, "aif", "aiff")
//
//	src, err := registry.Decode(filepath.Ext(name), file)
//
// The registry is safe for concurrent use. Nodes are not.
package audio
