// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/echoplay/audio"
	"github.com/ik5/echoplay/sample"
)

// frameReader is the part of flac.Stream the source needs; tests fake it.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

// source interleaves the subframes of each decoded FLAC frame. Samples of
// a frame that do not fit in dst are kept for the next call.
type source struct {
	stream     frameReader
	sampleRate int
	channels   int

	buf     []float32
	pending []float32 // undelivered tail of buf
	done    bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 * s.channels }
func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	n := 0
	for n < len(dst) {
		if len(s.pending) > 0 {
			c := copy(dst[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}

		if s.done {
			return n, io.EOF
		}

		if err := s.next(); err != nil {
			if errors.Is(err, io.EOF) {
				s.done = true
				continue
			}
			return n, err
		}
	}

	return n, nil
}

// next decodes one frame into pending.
func (s *source) next() error {
	f, err := s.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("decode FLAC frame: %w", err)
	}

	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, len(f.Subframes), s.channels)
	}

	block := int(f.BlockSize)
	for _, sub := range f.Subframes {
		block = min(block, len(sub.Samples))
	}

	need := block * s.channels
	if cap(s.buf) < need {
		s.buf = make([]float32, need)
	}
	s.buf = s.buf[:need]

	for i := range block {
		for ch, sub := range f.Subframes {
			s.buf[i*s.channels+ch] = sample.Int16ToFloat32(int16(sub.Samples[i]))
		}
	}
	s.pending = s.buf

	return nil
}

// Decoder reads 16-bit FLAC streams through mewkiz/flac.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := stream.Info
	if info.BitsPerSample != 16 {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %d bits", ErrOnlyPCM16bitSupported, info.BitsPerSample)
	}

	return &source{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
	}, nil
}
