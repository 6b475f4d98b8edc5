// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid audio system configuration")
	ErrDriverCreate  = errors.New("audio driver creation failed")
	ErrClosed        = errors.New("audio system is closed")
	ErrNoFreeChannel = errors.New("no idle channel available")
)
