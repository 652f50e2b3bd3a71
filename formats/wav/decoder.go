// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/echoplay/audio"
	"github.com/ik5/echoplay/sample"
)

const (
	formatPCM   = 1
	bytesPerPCM = 2
)

// source streams the data chunk of a 16-bit PCM file.
type source struct {
	pcm        io.Reader
	sampleRate int
	channels   int
	decode     sample.Decoder

	buf    []byte
	offset int64 // bytes consumed from the data chunk
	done   bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return cap(s.buf) / bytesPerPCM }
func (s *source) Close() error    { return nil }

// ReadSamples decodes up to len(dst) samples. A dangling odd byte at the end
// of the data chunk is reported once as a *audio.SampleError wrapping
// ErrTruncatedSample, after which the stream ends.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}

	need := len(dst) * bytesPerPCM
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.pcm, s.buf)
	samples := n / bytesPerPCM
	for i := range samples {
		dst[i] = s.decode(s.buf[i*bytesPerPCM:])
	}
	s.offset += int64(samples * bytesPerPCM)

	switch {
	case err == nil:
		return samples, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.done = true
		if n%bytesPerPCM != 0 {
			return samples, &audio.SampleError{Offset: s.offset, Err: ErrTruncatedSample}
		}
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("read PCM data: %w", err)
	}
}

// Decoder reads 16-bit PCM WAV files through go-audio/wav.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM || dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: format %d, %d bits", ErrOnlyPCM16bitSupported, dec.WavAudioFormat, dec.BitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingPCMData, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrMissingPCMData
	}

	pcm, err := dataChunk(rs, dec.PCMChunk)
	if err != nil {
		return nil, err
	}

	return &source{
		pcm:        pcm,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		decode:     sample.DecoderFor(sample.Int16),
		buf:        make([]byte, 4096*bytesPerPCM),
	}, nil
}

// dataChunk returns a reader over exactly the declared bytes of the data
// chunk. riff rounds odd chunk sizes up to cover the pad byte, which would
// turn a dangling byte into a bogus sample, so the size is read again from
// the chunk header that sits right before the current position.
func dataChunk(rs io.ReadSeeker, fallback io.Reader) (io.Reader, error) {
	if _, err := rs.Seek(-8, io.SeekCurrent); err != nil {
		return fallback, nil
	}

	var hdr [8]byte
	if _, err := io.ReadFull(rs, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingPCMData, err)
	}
	if string(hdr[:4]) != "data" {
		return fallback, nil
	}

	return io.LimitReader(rs, int64(binary.LittleEndian.Uint32(hdr[4:]))), nil
}
