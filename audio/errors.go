// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrNilBuffer         = errors.New("audio buffer is nil")
	ErrCursorUnavailable = errors.New("audio buffer cannot create a cursor")
	ErrDriverClosed      = errors.New("audio driver is closed")
)
