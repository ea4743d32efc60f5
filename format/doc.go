// SPDX-License-Identifier: EPL-2.0

// Package format describes audio sample layouts.
//
// A Format is always fully specified: bit depth, sample rate, channel map,
// sample type, byte order and interleave layout. A Setup is what a pipeline
// node advertises before a Format is agreed; each of its fields may be left
// open:
//
//	// Accepts any rate and channel map, but only 16-bit little-endian ints.
//	s := format.Setup{
//	    BitDepth:   format.Specify(16),
//	    SampleType: format.Some(format.SignedInt),
//	    ByteOrder:  format.Some(format.LittleEndian),
//	}
//
// Bit depth, sample rate and channel map may also be Unchanged, meaning the
// node passes the value through from whichever neighbor decides it. Adapters
// such as an interleaver use this for every field they do not touch.
package format
