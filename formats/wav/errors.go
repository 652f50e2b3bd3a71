// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	ErrMissingPCMData        = errors.New("WAV file has no data chunk")
	ErrTruncatedSample       = errors.New("truncated 16-bit sample")
)
