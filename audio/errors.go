// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidSignal     = errors.New("invalid signal")
)

// SampleError reports a single malformed sample that was dropped while
// decoding. The samples that follow shift down by one; nothing is padded in
// its place.
type SampleError struct {
	// Offset is the byte offset of the sample inside the audio data.
	Offset int64
	Err    error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample at byte %d: %v", e.Offset, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }
