// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/echoplay/audio"
	"github.com/ik5/echoplay/sample"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels      = 2
	bytesPerValue = 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	carry      int // bytes of a split sample kept at the front of buf
	decode     sample.Decoder
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / bytesPerValue }

// ReadSamples converts the decoder's PCM bytes to float32. A sample split
// across two reads is carried over to the next call.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * bytesPerValue
	if cap(s.buf) < need {
		grown := make([]byte, need)
		copy(grown, s.buf[:s.carry])
		s.buf = grown
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf[s.carry:])
	n += s.carry

	samples := n / bytesPerValue
	for i := range samples {
		dst[i] = s.decode(s.buf[i*bytesPerValue:])
	}

	s.carry = n % bytesPerValue
	if s.carry > 0 {
		if err == io.EOF {
			s.carry = 0
			return samples, &audio.SampleError{Err: io.ErrUnexpectedEOF}
		}
		copy(s.buf, s.buf[samples*bytesPerValue:n])
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("decode MP3: %w", err)
	}

	return samples, err
}

// Decoder reads MPEG-1/2 Layer III streams through go-mp3.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec), nil
}

func newSource(dec mp3Reader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
		decode:     sample.DecoderFor(sample.Int16),
	}
}
