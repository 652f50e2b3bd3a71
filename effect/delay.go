// SPDX-License-Identifier: EPL-2.0

package effect

import "math"

// Params configures a single-tap echo.
type Params struct {
	// SampleRate in Hz used to turn DelayMs into a sample count.
	SampleRate int
	// DelayMs is the echo delay in milliseconds.
	DelayMs float32
	// Feedback scales the delayed sample before it is added to the dry one.
	Feedback float32
}

// Offset returns the delay in samples for p.
func (p Params) Offset() int { return Offset(p.SampleRate, p.DelayMs) }

// Apply runs ApplyDelay with p.
func (p Params) Apply(input []float32) []float32 {
	return ApplyDelay(input, p.SampleRate, p.DelayMs, p.Feedback)
}

// Offset computes floor(sampleRate * delayMs / 1000).
// Negative and NaN products give 0.
func Offset(sampleRate int, delayMs float32) int {
	v := math.Floor(float64(sampleRate) * float64(delayMs) / 1000)
	if !(v > 0) {
		return 0
	}
	if v >= math.MaxInt {
		return math.MaxInt
	}

	return int(v)
}

// ApplyDelay returns a new slice where every sample past the delay offset
// has the dry sample offset positions earlier added to it, scaled by
// feedback:
//
//	out[i] = in[i]                          if i <= offset
//	out[i] = in[i] + feedback*in[i-offset]  otherwise
//
// The echo is taken from the input, never from out, so there is exactly one
// repeat. The offset counts interleaved samples, not frames. An offset of 0
// (for example sampleRate <= 0) makes every sample after the first
// (1+feedback) times its dry value.
//
// input is not modified and len(out) == len(input).
func ApplyDelay(input []float32, sampleRate int, delayMs, feedback float32) []float32 {
	out := make([]float32, len(input))
	copy(out, input)

	offset := Offset(sampleRate, delayMs)
	if offset >= len(input) {
		return out
	}

	for i := offset + 1; i < len(input); i++ {
		out[i] = input[i] + feedback*input[i-offset]
	}

	return out
}
