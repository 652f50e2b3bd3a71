//go:build !headless

// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"

	"github.com/ik5/echoplay/playback"
	"github.com/ik5/echoplay/sample"
)

// DefaultErrorPoll is how often an oto stream checks for device errors.
const DefaultErrorPoll = 100 * time.Millisecond

// oto allows a single context per process, so it is shared by every Oto.
var (
	otoMu  sync.Mutex
	otoCtx *oto.Context
	otoCfg playback.StreamConfig
)

// Oto is the system default output device, driven by ebitengine/oto.
type Oto struct {
	// BufferSize is the device-side buffer duration. Zero lets oto decide.
	BufferSize time.Duration
	// ErrorPoll is how often player and context errors are checked.
	ErrorPoll time.Duration

	log logrus.FieldLogger
}

// NewOto returns the system output device.
func NewOto(bufferSize time.Duration, log logrus.FieldLogger) *Oto {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Oto{
		BufferSize: bufferSize,
		ErrorPoll:  DefaultErrorPoll,
		log:        log,
	}
}

func (o *Oto) Name() string { return "oto" }

func (o *Oto) SupportedFormats() []sample.Format {
	return []sample.Format{sample.Float32, sample.Int16}
}

func otoFormat(f sample.Format) (oto.Format, error) {
	switch f {
	case sample.Int16:
		return oto.FormatSignedInt16LE, nil
	case sample.Float32:
		return oto.FormatFloat32LE, nil
	}

	return 0, fmt.Errorf("%w: %s", playback.ErrUnsupportedSampleFormat, f)
}

// context returns the process-wide oto context for cfg, creating it on first
// use.
func (o *Oto) context(cfg playback.StreamConfig) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoCfg != cfg {
			return nil, fmt.Errorf("%w: open as %s, requested %s", playback.ErrDeviceBusy, otoCfg, cfg)
		}

		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("resume oto context: %w", err)
		}

		return otoCtx, nil
	}

	format, err := otoFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       format,
		BufferSize:   o.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", playback.ErrNoOutputDevice, err)
	}

	<-ready

	otoCtx = ctx
	otoCfg = cfg

	o.log.WithFields(logrus.Fields{
		"function":    "context",
		"sample_rate": cfg.SampleRate,
		"channels":    cfg.Channels,
		"format":      cfg.Format.String(),
		"buffer":      o.BufferSize,
	}).Info("Audio output initialized")

	return ctx, nil
}

func (o *Oto) OpenStream(cfg playback.StreamConfig, fill playback.Callback, onError playback.ErrorCallback) (playback.Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, err := o.context(cfg)
	if err != nil {
		return nil, err
	}

	poll := o.ErrorPoll
	if poll <= 0 {
		poll = DefaultErrorPoll
	}

	s := &otoStream{
		ctx:     ctx,
		fill:    fill,
		onError: onError,
		poll:    poll,
		done:    make(chan struct{}),
	}

	s.player = ctx.NewPlayer(s)
	if o.BufferSize > 0 {
		s.player.SetBufferSize(cfg.BytesFor(o.BufferSize))
	}

	return s, nil
}

// otoStream is the io.Reader oto pulls from. Each Read is one device
// callback.
type otoStream struct {
	ctx     *oto.Context
	player  *oto.Player
	fill    playback.Callback
	onError playback.ErrorCallback
	poll    time.Duration

	started   atomic.Bool
	closed    atomic.Bool
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Read never reports EOF: past the end of the signal the callback writes
// silence and the stream runs until closed.
func (s *otoStream) Read(p []byte) (int, error) {
	if s.closed.Load() {
		clear(p)
		return len(p), nil
	}

	s.fill(p)

	return len(p), nil
}

func (s *otoStream) Start() error {
	if s.closed.Load() {
		return playback.ErrStreamClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.player.Play()

	s.wg.Add(1)
	go s.monitor()

	return nil
}

// monitor forwards player and context errors to the error callback, each
// distinct error once.
func (s *otoStream) monitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	var last error

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		err := s.player.Err()
		if err == nil {
			err = s.ctx.Err()
		}

		if err == nil || errors.Is(err, last) {
			continue
		}

		last = err
		if s.onError != nil {
			s.onError(err)
		}
	}
}

func (s *otoStream) Close() error {
	var err error

	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.wg.Wait()

		err = s.player.Close()

		otoMu.Lock()
		if serr := s.ctx.Suspend(); serr != nil {
			err = errors.Join(err, fmt.Errorf("suspend oto context: %w", serr))
		}
		otoMu.Unlock()
	})

	return err
}
