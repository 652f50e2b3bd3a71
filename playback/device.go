// SPDX-License-Identifier: EPL-2.0

package playback

import "github.com/ik5/echoplay/sample"

// Callback fills out with the next block of native samples laid out per the
// stream's StreamConfig.
//
// The device calls it on its own goroutine, one call at a time, whenever it
// needs more audio. Implementations must return quickly, must not allocate
// and must not block on anything other than short, bounded locks. Missing
// samples are written as silence, never waited for.
type Callback func(out []byte)

// ErrorCallback receives device-level playback errors. It is called
// asynchronously and must not assume the stream has stopped.
type ErrorCallback func(err error)

// Device is an audio output subsystem.
type Device interface {
	// Name identifies the device in logs.
	Name() string
	// SupportedFormats lists the native sample formats the device accepts.
	SupportedFormats() []sample.Format
	// OpenStream prepares a stream that will call fill once started.
	// Errors here are fatal to the session.
	OpenStream(cfg StreamConfig, fill Callback, onError ErrorCallback) (Stream, error)
}

// Stream is an open output stream.
type Stream interface {
	// Start begins invoking the fill callback.
	Start() error
	// Close stops the stream. Once it returns the callback is never invoked
	// again. Close is safe to call more than once.
	Close() error
}
