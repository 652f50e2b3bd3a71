// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/echoplay/sample"
)

func TestNegotiate(t *testing.T) {
	t.Parallel()

	both := []sample.Format{sample.Float32, sample.Int16}

	tests := []struct {
		name      string
		rate      int
		channels  int
		want      sample.Format
		supported []sample.Format
		wantErr   error
	}{
		{"float stereo", 44100, 2, sample.Float32, both, nil},
		{"int16 mono", 8000, 1, sample.Int16, both, nil},
		{"format not offered", 44100, 2, sample.Int16, []sample.Format{sample.Float32}, ErrUnsupportedSampleFormat},
		{"device offers nothing", 44100, 2, sample.Float32, nil, ErrUnsupportedSampleFormat},
		{"unknown format", 44100, 2, sample.Format(9), both, ErrUnsupportedSampleFormat},
		{"zero rate", 0, 2, sample.Float32, both, ErrInvalidStreamConfig},
		{"negative rate", -1, 2, sample.Float32, both, ErrInvalidStreamConfig},
		{"zero channels", 44100, 0, sample.Float32, both, ErrInvalidStreamConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Negotiate(tt.rate, tt.channels, tt.want, tt.supported)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, StreamConfig{}, cfg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StreamConfig{SampleRate: tt.rate, Channels: tt.channels, Format: tt.want}, cfg)
		})
	}
}

func TestStreamConfig_Sizes(t *testing.T) {
	t.Parallel()

	cfg := StreamConfig{SampleRate: 48000, Channels: 2, Format: sample.Int16}

	assert.Equal(t, 4, cfg.BytesPerFrame())
	assert.Equal(t, 4800*4, cfg.BytesFor(100*time.Millisecond))
	assert.Zero(t, cfg.BytesFor(0))
	assert.Equal(t, "48000Hz 2ch int16", cfg.String())

	cfg.Format = sample.Float32
	assert.Equal(t, 8, cfg.BytesPerFrame())
}
