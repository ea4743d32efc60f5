// SPDX-License-Identifier: EPL-2.0

package adapter

import "errors"

var ErrInvalidRoutine = errors.New("channel routine does not fit its channel maps")
