// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/echoplay/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 - 4096%max(s.channels, 1) }

// ReadSamples decodes straight into dst. oggvorbis already produces
// interleaved float32 in [-1, 1]; the request is trimmed to whole frames.
func (s *source) ReadSamples(dst []float32) (int, error) {
	whole := len(dst) - len(dst)%max(s.channels, 1)
	if whole == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:whole])
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("decode vorbis: %w", err)
	}

	return n, err
}

// Decoder reads Ogg Vorbis streams through jfreymuth/oggvorbis.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
