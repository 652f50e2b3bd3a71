// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests: a synthetic
// audio.Source and builders for WAV files, well-formed or not.
package audiotest

import (
	"io"
	"math"
)

// Wave returns the value of one channel of one frame.
type Wave func(frame, channel int) float32

// Sine is a full-scale sine at hz, identical on every channel.
func Sine(rate int, hz float64) Wave {
	return func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * hz * float64(frame) / float64(rate)))
	}
}

// Constant holds v on every channel.
func Constant(v float32) Wave {
	return func(int, int) float32 { return v }
}

// Source generates frames from a Wave. It satisfies audio.Source without
// importing it.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Wave
	closed   bool
}

// NewSource returns a Source producing frames frames of wave.
func NewSource(rate, channels, frames int, wave Wave) *Source {
	return &Source{
		rate:     rate,
		channels: channels,
		frames:   frames,
		wave:     wave,
	}
}

func NewSineSource(rate, channels, frames int, hz float64) *Source {
	return NewSource(rate, channels, frames, Sine(rate, hz))
}

func NewSilentSource(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, Constant(0))
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool { return s.closed }

// Reset rewinds to the first frame.
func (s *Source) Reset() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	frames := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range frames {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += frames

	if s.pos >= s.frames {
		return frames * s.channels, io.EOF
	}

	return frames * s.channels, nil
}
