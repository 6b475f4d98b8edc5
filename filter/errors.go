// SPDX-License-Identifier: EPL-2.0

package filter

import "errors"

var (
	ErrInvalidCoefficient = errors.New("filter coefficient must be in (0, 1]")
)
