// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"slices"
	"time"

	"github.com/ik5/echoplay/sample"
)

// StreamConfig is the layout agreed with the device before playback. It does
// not change for the lifetime of a stream.
type StreamConfig struct {
	SampleRate int
	Channels   int
	Format     sample.Format
}

// Validate checks that the configuration can describe a real stream.
func (c StreamConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidStreamConfig, c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrInvalidStreamConfig, c.Channels)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedSampleFormat, c.Format)
	}

	return nil
}

// BytesPerFrame is the size of one interleaved frame.
func (c StreamConfig) BytesPerFrame() int { return c.Channels * c.Format.Size() }

// BytesFor returns the byte length of d worth of frames, rounded down to a
// whole frame.
func (c StreamConfig) BytesFor(d time.Duration) int {
	frames := int(int64(d) * int64(c.SampleRate) / int64(time.Second))

	return frames * c.BytesPerFrame()
}

func (c StreamConfig) String() string {
	return fmt.Sprintf("%dHz %dch %s", c.SampleRate, c.Channels, c.Format)
}

// Negotiate picks the stream configuration for a signal with the given rate
// and channel count. Rate and channels are used as-is since nothing
// resamples; want must appear in supported.
func Negotiate(sampleRate, channels int, want sample.Format, supported []sample.Format) (StreamConfig, error) {
	cfg := StreamConfig{
		SampleRate: sampleRate,
		Channels:   channels,
		Format:     want,
	}

	if err := cfg.Validate(); err != nil {
		return StreamConfig{}, err
	}

	if !slices.Contains(supported, want) {
		return StreamConfig{}, fmt.Errorf("%w: device offers %v, want %s",
			ErrUnsupportedSampleFormat, supported, want)
	}

	return cfg, nil
}
