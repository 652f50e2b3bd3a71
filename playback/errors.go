// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	// ErrNoOutputDevice is returned when no default output device exists.
	ErrNoOutputDevice = errors.New("no output device available")

	// ErrUnsupportedSampleFormat is returned when the device cannot take the
	// requested sample format.
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")

	// ErrInvalidStreamConfig is returned for non-positive rates or channel
	// counts.
	ErrInvalidStreamConfig = errors.New("invalid stream configuration")

	// ErrDeviceBusy is returned when the device is already open with a
	// different configuration.
	ErrDeviceBusy = errors.New("output device busy")

	// ErrStreamClosed is returned when starting a stream after Close.
	ErrStreamClosed = errors.New("stream closed")
)
