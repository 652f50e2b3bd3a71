// SPDX-License-Identifier: EPL-2.0

package device

import (
	"slices"
	"sync"
	"time"

	"github.com/ik5/echoplay/playback"
	"github.com/ik5/echoplay/sample"
)

// DefaultBlockFrames is the number of frames Headless asks for per callback.
const DefaultBlockFrames = 512

// Headless is an output device without hardware. Once started it calls the
// fill callback with fixed-size blocks, paced at the stream's sample rate, on
// its own goroutine. It is used for dry runs and tests.
type Headless struct {
	// BlockFrames is the callback block size in frames.
	BlockFrames int
	// Formats overrides the supported formats. Both codecs by default.
	Formats []sample.Format
	// OpenErr, if set, is returned by OpenStream.
	OpenErr error

	mu       sync.Mutex
	record   bool
	recorded []byte
	active   *headlessStream
}

// NewHeadless returns a headless device delivering blockFrames per callback.
func NewHeadless(blockFrames int) *Headless {
	return &Headless{BlockFrames: blockFrames}
}

func (h *Headless) Name() string { return "headless" }

func (h *Headless) SupportedFormats() []sample.Format {
	if h.Formats != nil {
		return h.Formats
	}

	return []sample.Format{sample.Float32, sample.Int16}
}

// Record makes the device keep a copy of every block it receives.
func (h *Headless) Record() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.record = true
}

// Recorded returns a copy of everything captured since Record.
func (h *Headless) Recorded() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	return slices.Clone(h.recorded)
}

// InjectError reports err through the active stream's error callback on a
// separate goroutine, the way a real device reports glitches. It returns
// false if no stream is open.
func (h *Headless) InjectError(err error) bool {
	h.mu.Lock()
	s := h.active
	h.mu.Unlock()

	if s == nil || s.onError == nil {
		return false
	}

	go s.onError(err)

	return true
}

func (h *Headless) OpenStream(cfg playback.StreamConfig, fill playback.Callback, onError playback.ErrorCallback) (playback.Stream, error) {
	if h.OpenErr != nil {
		return nil, h.OpenErr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	frames := h.BlockFrames
	if frames <= 0 {
		frames = DefaultBlockFrames
	}

	s := &headlessStream{
		dev:     h,
		fill:    fill,
		onError: onError,
		block:   make([]byte, frames*cfg.BytesPerFrame()),
		period:  max(time.Duration(frames)*time.Second/time.Duration(cfg.SampleRate), time.Microsecond),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.active = s
	h.mu.Unlock()

	return s, nil
}

func (h *Headless) capture(block []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.record {
		h.recorded = append(h.recorded, block...)
	}
}

func (h *Headless) release(s *headlessStream) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == s {
		h.active = nil
	}
}

type headlessStream struct {
	dev     *Headless
	fill    playback.Callback
	onError playback.ErrorCallback
	block   []byte
	period  time.Duration

	mu      sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func (s *headlessStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return playback.ErrStreamClosed
	}
	if s.started {
		return nil
	}

	s.started = true
	s.wg.Add(1)
	go s.run()

	return nil
}

func (s *headlessStream) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		// Close may have raced the tick.
		select {
		case <-s.done:
			return
		default:
		}

		s.fill(s.block)
		s.dev.capture(s.block)
	}
}

func (s *headlessStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	s.dev.release(s)

	return nil
}
