// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/echoplay/sample"
)

// DefaultScratchSize is the number of samples the driver can move out of the
// buffer per lock acquisition.
const DefaultScratchSize = 8192

// Stats is a snapshot of driver activity.
type Stats struct {
	Callbacks      uint64
	SamplesWritten uint64
	SilenceWritten uint64
	DeviceErrors   uint64
}

// Driver feeds a Buffer to an output device through the device callback.
type Driver struct {
	buf     *Buffer
	cfg     StreamConfig
	size    int
	encode  sample.Encoder
	scratch []float32

	log     logrus.FieldLogger
	onError ErrorCallback

	callbacks atomic.Uint64
	written   atomic.Uint64
	silence   atomic.Uint64
	devErrors atomic.Uint64
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for lifecycle and device error messages.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}

// WithScratchSize sets how many samples are copied per lock acquisition.
// Callback blocks larger than this take the buffer lock more than once.
func WithScratchSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.scratch = make([]float32, n)
		}
	}
}

// WithErrorHandler adds a hook called after a device error has been logged.
func WithErrorHandler(fn ErrorCallback) Option {
	return func(d *Driver) { d.onError = fn }
}

// NewDriver creates a driver that plays buf with the negotiated cfg.
func NewDriver(buf *Buffer, cfg StreamConfig, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		buf:     buf,
		cfg:     cfg,
		size:    cfg.Format.Size(),
		encode:  sample.EncoderFor(cfg.Format),
		scratch: make([]float32, DefaultScratchSize),
		log:     logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Config returns the stream configuration the driver was built for.
func (d *Driver) Config() StreamConfig { return d.cfg }

// Fill is the device callback. It encodes the next samples of the buffer
// into out and writes silence once the buffer is exhausted. Trailing bytes
// that do not make up a whole sample are zeroed.
//
// Fill must not be called concurrently with itself; devices serialize their
// callbacks.
func (d *Driver) Fill(out []byte) {
	d.callbacks.Add(1)

	// Interleaved frames are laid out channel by channel, so walking the
	// block sample by sample visits every channel of every frame in order.
	total := len(out) / d.size
	written := 0

	for written < total {
		want := min(total-written, len(d.scratch))
		n := d.buf.ReadBlock(d.scratch[:want])

		base := written * d.size
		for i, x := range d.scratch[:n] {
			off := base + i*d.size
			d.encode(out[off:off+d.size], x)
		}

		written += n
		if n < want {
			break
		}
	}

	sample.Silence(d.cfg.Format, out[written*d.size:])

	d.written.Add(uint64(written))
	d.silence.Add(uint64(total - written))
}

// Stats returns counters accumulated by Fill and the error callback.
func (d *Driver) Stats() Stats {
	return Stats{
		Callbacks:      d.callbacks.Load(),
		SamplesWritten: d.written.Load(),
		SilenceWritten: d.silence.Load(),
		DeviceErrors:   d.devErrors.Load(),
	}
}

func (d *Driver) reportError(err error) {
	d.devErrors.Add(1)

	d.log.WithFields(logrus.Fields{
		"function": "reportError",
		"stream":   d.cfg.String(),
		"position": d.buf.Position(),
	}).WithError(err).Error("Playback error, continuing")

	if d.onError != nil {
		d.onError(err)
	}
}

// Run opens a stream on dev, starts it and keeps it open for playFor or until
// ctx is done, then closes it. The cursor is not consulted: the stream is
// closed on the clock, so up to one callback block may be cut or padded.
//
// Errors opening or starting the stream are returned. Errors reported by the
// device while playing are logged and do not stop playback.
func (d *Driver) Run(ctx context.Context, dev Device, playFor time.Duration) error {
	log := d.log.WithFields(logrus.Fields{
		"function": "Run",
		"device":   dev.Name(),
		"stream":   d.cfg.String(),
	})

	stream, err := dev.OpenStream(d.cfg, d.Fill, d.reportError)
	if err != nil {
		return fmt.Errorf("open %s stream: %w", dev.Name(), err)
	}

	defer func() {
		if cerr := stream.Close(); cerr != nil {
			log.WithError(cerr).Warn("Closing stream failed")
		}
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start %s stream: %w", dev.Name(), err)
	}

	log.WithFields(logrus.Fields{
		"duration": playFor,
		"samples":  d.buf.Len(),
	}).Info("Playback started")

	timer := time.NewTimer(playFor)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Debug("Play duration elapsed")
	case <-ctx.Done():
		log.WithError(ctx.Err()).Info("Playback stopped early")
	}

	return nil
}
