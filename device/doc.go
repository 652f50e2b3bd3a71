// SPDX-License-Identifier: EPL-2.0

// Package device provides playback.Device implementations.
//
// Oto plays through the system default output using ebitengine/oto. oto
// pulls audio from an io.Reader on its own goroutine; every Read is turned
// into one call of the playback callback and always reports a full block.
// oto permits one context per process, so a second stream must use the same
// StreamConfig as the first or OpenStream fails with playback.ErrDeviceBusy.
// Builds with the headless tag replace Oto with a stub that reports
// playback.ErrNoOutputDevice.
//
// Headless needs no hardware. It calls the callback with fixed-size blocks
// paced at the stream's sample rate, can record what it was given and can
// inject device errors, which makes it suitable for dry runs and tests.
package device
