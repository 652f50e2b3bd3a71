//go:build headless

// SPDX-License-Identifier: EPL-2.0

package device

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/echoplay/playback"
	"github.com/ik5/echoplay/sample"
)

// Oto is unavailable in headless builds; opening a stream always fails with
// playback.ErrNoOutputDevice.
type Oto struct {
	BufferSize time.Duration
	ErrorPoll  time.Duration
}

func NewOto(bufferSize time.Duration, _ logrus.FieldLogger) *Oto {
	return &Oto{BufferSize: bufferSize}
}

func (o *Oto) Name() string { return "oto" }

func (o *Oto) SupportedFormats() []sample.Format {
	return []sample.Format{sample.Float32, sample.Int16}
}

func (o *Oto) OpenStream(playback.StreamConfig, playback.Callback, playback.ErrorCallback) (playback.Stream, error) {
	return nil, playback.ErrNoOutputDevice
}
