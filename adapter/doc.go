// SPDX-License-Identifier: EPL-2.0

// Package adapter implements the stages the negotiation engine inserts
// between a source and a destination whose formats do not match.
//
// A ChannelMapper changes the channel map using a routine from a
// MappingTable. A Converter changes bit depth, sample rate and layout and
// normalizes sample type and byte order. An Interleaver or Deinterleaver
// only changes the layout.
//
// Every stage is a pull node: PerformInto pulls one block from the
// upstream into a scratch buffer and transforms it into the caller's
// buffer. Stages are configured once with SetOutputFormat followed by
// ConnectInput and are not safe for concurrent use.
package adapter
