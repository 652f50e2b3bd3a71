// SPDX-License-Identifier: EPL-2.0

package sample

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown sample format")
)
