// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrIncompatibleFormat = errors.New("incompatible formats")
	ErrNoChannelMapping   = errors.New("no channel mapping for channel maps")
	ErrUnimplemented      = errors.New("configuration not implemented")
	ErrAlreadyConnected   = errors.New("node input already connected")
	ErrNotConnected       = errors.New("node input not connected")
	ErrNoSetups           = errors.New("node advertises no setups")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrBufferFormat       = errors.New("buffer format does not match connection")
	ErrOutputNotSet       = errors.New("output format not set")
	ErrUnknownFormat      = errors.New("no decoder registered for format")
)

// AdapterError reports that an adapter stage could not be configured.
type AdapterError struct {
	Kind Kind
	Err  error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }
