// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrOnlyPCM16bitSupported = errors.New("only 16-bit FLAC is supported")
	ErrChannelMismatch       = errors.New("FLAC frame channel count does not match stream")
)
