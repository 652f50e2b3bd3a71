// SPDX-License-Identifier: EPL-2.0

// Package echoplay plays an audio file through a feedback delay.
//
// The pipeline runs in three steps, each usable on its own:
//
//	sig, err := echoplay.Load("piano.wav", echoplay.DefaultRegistry(), opts)
//	wet := echoplay.Process(sig, opts)
//	stats, err := echoplay.Play(ctx, wet, device.NewOto(0, log), opts)
//
// Load decodes the whole file into memory. Process applies the delay once,
// offline. Play hands the result to a playback.Driver, which streams it to
// the device from the device's own callback goroutine and keeps the stream
// open for the nominal duration of the signal.
//
// # Supported Formats
//
// DefaultRegistry knows these extensions:
//   - wav (PCM 16-bit) via formats/wav
//   - aif, aiff (PCM 16-bit) via formats/aiff
//   - mp3 via formats/mp3
//   - ogg (Vorbis) via formats/vorbis
//   - flac (16-bit) via formats/flac
//
// Render writes a processed signal to a 16-bit WAV file instead of playing
// it.
package echoplay
