// SPDX-License-Identifier: EPL-2.0

package effect

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate int
		delayMs    float32
		want       int
	}{
		{"cd rate half second", 44100, 500, 22050},
		{"floors fractional samples", 44100, 0.5, 22},
		{"tiny rate", 4, 250, 1},
		{"below one sample", 4, 100, 0},
		{"zero rate", 0, 500, 0},
		{"negative rate", -44100, 500, 0},
		{"negative delay", 48000, -10, 0},
		{"NaN delay", 48000, float32(math.NaN()), 0},
		{"infinite delay", 48000, float32(math.Inf(1)), math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Offset(tt.sampleRate, tt.delayMs))
		})
	}
}

func TestApplyDelay_SingleTapScenario(t *testing.T) {
	t.Parallel()

	input := []float32{1.0, 0.5, 0.25, 0.0, -0.5}

	got := ApplyDelay(input, 4, 250, 0.5)

	assert.InDeltaSlice(t, []float32{1.0, 0.5, 0.5, 0.125, -0.5}, got, 1e-7)
	assert.Equal(t, []float32{1.0, 0.5, 0.25, 0.0, -0.5}, input, "input must not change")
}

func TestApplyDelay_EchoComesFromDryInput(t *testing.T) {
	t.Parallel()

	// An impulse produces exactly one echo. A recursive delay would keep
	// echoing at 2*offset, 3*offset...
	input := make([]float32, 10)
	input[0] = 1

	got := ApplyDelay(input, 1000, 3, 0.5)

	want := make([]float32, 10)
	want[0] = 1
	want[3] = 0 // i <= offset still copies the dry sample
	for i := range want {
		assert.Equalf(t, want[i], got[i], "index %d", i)
	}

	// Impulse after the copy region.
	input = make([]float32, 12)
	input[1] = 1

	got = ApplyDelay(input, 1000, 3, 0.5)

	assert.Equal(t, float32(1), got[1])
	assert.Equal(t, float32(0.5), got[4])
	assert.Equal(t, float32(0), got[7], "second echo must not appear")
	assert.Equal(t, float32(0), got[10])
}

func TestApplyDelay_OffsetCoversInput(t *testing.T) {
	t.Parallel()

	input := []float32{0.1, -0.2, 0.3, -0.4}

	for _, delayMs := range []float32{4, 5, 1000, float32(math.Inf(1))} {
		got := ApplyDelay(input, 1000, delayMs, 0.9)
		assert.Equalf(t, input, got, "delay %vms", delayMs)
	}
}

func TestApplyDelay_ZeroFeedbackIsPassThrough(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	input := make([]float32, 257)
	for i := range input {
		input[i] = rng.Float32()*2 - 1
	}

	for _, delayMs := range []float32{0, 1, 10, 100} {
		got := ApplyDelay(input, 8000, delayMs, 0)
		assert.Equalf(t, input, got, "delay %vms", delayMs)
	}
}

func TestApplyDelay_PreservesLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 7, 1024} {
		input := make([]float32, n)
		for _, rate := range []int{-1, 0, 8000, 44100} {
			got := ApplyDelay(input, rate, 2, 0.7)
			assert.Lenf(t, got, n, "n=%d rate=%d", n, rate)
		}
	}
}

func TestApplyDelay_EmptyInput(t *testing.T) {
	t.Parallel()

	got := ApplyDelay(nil, 44100, 500, 0.5)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

// A zero offset makes every sample but the first echo itself.
func TestApplyDelay_ZeroOffsetSelfFeedback(t *testing.T) {
	t.Parallel()

	input := []float32{0.2, 0.4, -0.4, 0.1}

	for _, rate := range []int{0, -48000} {
		got := ApplyDelay(input, rate, 500, 0.5)

		assert.Equal(t, float32(0.2), got[0], "index 0 is copied")
		assert.InDelta(t, 0.6, got[1], 1e-6)
		assert.InDelta(t, -0.6, got[2], 1e-6)
		assert.InDelta(t, 0.15, got[3], 1e-6)
	}

	// Same thing through a delay that rounds down to nothing.
	got := ApplyDelay(input, 1000, 0.4, 1)
	assert.InDeltaSlice(t, []float32{0.2, 0.8, -0.8, 0.2}, got, 1e-6)
}

func TestParams(t *testing.T) {
	t.Parallel()

	p := Params{SampleRate: 4, DelayMs: 250, Feedback: 0.5}

	assert.Equal(t, 1, p.Offset())
	assert.Equal(t,
		ApplyDelay([]float32{1, 0.5, 0.25}, 4, 250, 0.5),
		p.Apply([]float32{1, 0.5, 0.25}))
}

func BenchmarkApplyDelay(b *testing.B) {
	// 10 seconds of stereo at 44.1kHz
	input := make([]float32, 44100*2*10)
	for i := range input {
		input[i] = float32(math.Sin(float64(i) * 0.01))
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = ApplyDelay(input, 44100, 500, 0.5)
	}
}
