// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/echoplay/sample"
)

// fakeDevice hands the callback back to the test instead of running it on a
// schedule.
type fakeDevice struct {
	formats  []sample.Format
	openErr  error
	startErr error

	mu      sync.Mutex
	fill    Callback
	onError ErrorCallback
	cfg     StreamConfig
	started bool
	closed  atomic.Int32
}

func (f *fakeDevice) Name() string                      { return "fake" }
func (f *fakeDevice) SupportedFormats() []sample.Format { return f.formats }

func (f *fakeDevice) OpenStream(cfg StreamConfig, fill Callback, onError ErrorCallback) (Stream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.cfg = cfg
	f.fill = fill
	f.onError = onError

	return f, nil
}

func (f *fakeDevice) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.startErr != nil {
		return f.startErr
	}
	f.started = true

	return nil
}

func (f *fakeDevice) Close() error {
	f.closed.Add(1)
	return nil
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	return log, hook
}

func newTestDriver(t *testing.T, samples []float32, cfg StreamConfig, opts ...Option) *Driver {
	t.Helper()

	log, _ := quietLogger()
	drv, err := NewDriver(NewBuffer(samples), cfg, append([]Option{WithLogger(log)}, opts...)...)
	require.NoError(t, err)

	return drv
}

func decodeFloat32s(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}

	return out
}

func decodeInt16s(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}

	return out
}

func TestDriver_FillFloat32ThenSilence(t *testing.T) {
	t.Parallel()

	cfg := StreamConfig{SampleRate: 4, Channels: 2, Format: sample.Float32}
	drv := newTestDriver(t, []float32{0.1, -0.1, 0.2, -0.2, 0.3}, cfg)

	// Two frames per block.
	block := make([]byte, 2*cfg.BytesPerFrame())

	drv.Fill(block)
	assert.Equal(t, []float32{0.1, -0.1, 0.2, -0.2}, decodeFloat32s(block))

	for i := range block {
		block[i] = 0xAA
	}
	drv.Fill(block)
	assert.Equal(t, []float32{0.3, 0, 0, 0}, decodeFloat32s(block))

	drv.Fill(block)
	assert.Equal(t, []float32{0, 0, 0, 0}, decodeFloat32s(block))

	stats := drv.Stats()
	assert.Equal(t, uint64(3), stats.Callbacks)
	assert.Equal(t, uint64(5), stats.SamplesWritten)
	assert.Equal(t, uint64(7), stats.SilenceWritten)
}

func TestDriver_FillInt16UsesCodec(t *testing.T) {
	t.Parallel()

	cfg := StreamConfig{SampleRate: 8000, Channels: 1, Format: sample.Int16}
	drv := newTestDriver(t, []float32{1, -1, 0.5, 2, -3}, cfg)

	block := make([]byte, 6*2)
	drv.Fill(block)

	assert.Equal(t,
		[]int16{math.MaxInt16, -math.MaxInt16, 16383, math.MaxInt16, -math.MaxInt16, 0},
		decodeInt16s(block))
}

func TestDriver_FillPartialSampleBytesAreZeroed(t *testing.T) {
	t.Parallel()

	cfg := StreamConfig{SampleRate: 8000, Channels: 1, Format: sample.Float32}
	drv := newTestDriver(t, []float32{1, 1, 1}, cfg)

	block := []byte{9, 9, 9, 9, 9, 9}
	drv.Fill(block)

	assert.Equal(t, float32(1), decodeFloat32s(block[:4])[0])
	assert.Equal(t, []byte{0, 0}, block[4:])
	assert.Equal(t, uint64(1), drv.Stats().SamplesWritten)
}

func TestDriver_FillLargerThanScratch(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = float32(i) / 100
	}

	cfg := StreamConfig{SampleRate: 8000, Channels: 2, Format: sample.Float32}
	drv := newTestDriver(t, samples, cfg, WithScratchSize(7))

	block := make([]byte, 64*4)
	drv.Fill(block)
	assert.Equal(t, samples[:64], decodeFloat32s(block))

	drv.Fill(block)
	got := decodeFloat32s(block)
	assert.Equal(t, samples[64:], got[:36])
	assert.Equal(t, make([]float32, 28), got[36:])
}

func TestDriver_FillEmptySignal(t *testing.T) {
	t.Parallel()

	cfg := StreamConfig{SampleRate: 8000, Channels: 2, Format: sample.Int16}
	drv := newTestDriver(t, nil, cfg)

	block := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	drv.Fill(block)

	assert.Equal(t, make([]byte, 8), block)
	assert.Equal(t, uint64(4), drv.Stats().SilenceWritten)
}

func TestDriver_Fill_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	cfg := StreamConfig{SampleRate: 48000, Channels: 2, Format: sample.Int16}
	drv := newTestDriver(t, make([]float32, 1<<20), cfg)
	block := make([]byte, 1024*cfg.BytesPerFrame())

	allocs := testing.AllocsPerRun(100, func() {
		drv.Fill(block)
	})

	if allocs > 0 {
		t.Errorf("Fill allocated %v times, want 0", allocs)
	}
}

func TestNewDriver_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := NewDriver(NewBuffer(nil), StreamConfig{SampleRate: 0, Channels: 1, Format: sample.Int16})
	assert.ErrorIs(t, err, ErrInvalidStreamConfig)
}

func TestDriver_RunPlaysForDurationAndCloses(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{formats: []sample.Format{sample.Float32}}
	cfg := StreamConfig{SampleRate: 8000, Channels: 1, Format: sample.Float32}
	drv := newTestDriver(t, []float32{0.5, 0.25}, cfg)

	start := time.Now()
	err := drv.Run(context.Background(), dev, 30*time.Millisecond)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.True(t, dev.started)
	assert.Equal(t, int32(1), dev.closed.Load())
	assert.Equal(t, cfg, dev.cfg)

	// The registered callback is the driver's Fill.
	block := make([]byte, 8)
	dev.fill(block)
	assert.Equal(t, []float32{0.5, 0.25}, decodeFloat32s(block))
}

func TestDriver_RunStopsOnContext(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{formats: []sample.Format{sample.Float32}}
	cfg := StreamConfig{SampleRate: 8000, Channels: 1, Format: sample.Float32}
	drv := newTestDriver(t, nil, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, drv.Run(ctx, dev, time.Hour))

	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, int32(1), dev.closed.Load())
}

func TestDriver_RunOpenFailureIsFatal(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{openErr: ErrNoOutputDevice}
	cfg := StreamConfig{SampleRate: 8000, Channels: 1, Format: sample.Float32}
	drv := newTestDriver(t, nil, cfg)

	err := drv.Run(context.Background(), dev, time.Hour)

	require.ErrorIs(t, err, ErrNoOutputDevice)
	assert.Zero(t, dev.closed.Load())
}

func TestDriver_RunStartFailureClosesStream(t *testing.T) {
	t.Parallel()

	startErr := errors.New("device vanished")
	dev := &fakeDevice{startErr: startErr}
	cfg := StreamConfig{SampleRate: 8000, Channels: 1, Format: sample.Float32}
	drv := newTestDriver(t, nil, cfg)

	err := drv.Run(context.Background(), dev, time.Hour)

	require.ErrorIs(t, err, startErr)
	assert.Equal(t, int32(1), dev.closed.Load())
}

func TestDriver_DeviceErrorsAreReportedNotFatal(t *testing.T) {
	t.Parallel()

	log, hook := quietLogger()
	dev := &fakeDevice{}
	cfg := StreamConfig{SampleRate: 8000, Channels: 1, Format: sample.Float32}

	var handled atomic.Int32
	drv, err := NewDriver(NewBuffer([]float32{1}), cfg,
		WithLogger(log),
		WithErrorHandler(func(error) { handled.Add(1) }))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- drv.Run(context.Background(), dev, 50*time.Millisecond) }()

	require.Eventually(t, func() bool {
		dev.mu.Lock()
		defer dev.mu.Unlock()
		return dev.started
	}, time.Second, time.Millisecond)

	dev.mu.Lock()
	onError := dev.onError
	dev.mu.Unlock()

	onError(io.ErrShortWrite)
	onError(io.ErrShortWrite)

	require.NoError(t, <-done)
	assert.Equal(t, uint64(2), drv.Stats().DeviceErrors)
	assert.Equal(t, int32(2), handled.Load())

	var errorEntries int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errorEntries++
			assert.Equal(t, io.ErrShortWrite, e.Data[logrus.ErrorKey])
		}
	}
	assert.Equal(t, 2, errorEntries)
}
