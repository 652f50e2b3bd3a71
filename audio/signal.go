// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// maxEmptyReads bounds how many (0, nil) reads Collect tolerates in a row.
const maxEmptyReads = 100

// Signal is a fully decoded, interleaved stream held in memory.
type Signal struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Frames is the number of whole interleaved frames in the signal.
func (s *Signal) Frames() int {
	if s.Channels <= 0 {
		return 0
	}

	return len(s.Samples) / s.Channels
}

// Duration is the nominal play time, Frames / SampleRate.
func (s *Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}

	return time.Duration(int64(s.Frames()) * int64(time.Second) / int64(s.SampleRate))
}

// Validate checks that the signal can be played.
func (s *Signal) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidSignal, s.SampleRate)
	}
	if s.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrInvalidSignal, s.Channels)
	}

	return nil
}

// Collect reads src until io.EOF and returns everything as a Signal.
//
// A *SampleError from src is logged and the sample is skipped; reading goes
// on. Any other error aborts. log may be nil.
func Collect(src Source, log logrus.FieldLogger) (*Signal, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	if ch := src.Channels(); ch > 0 && size%ch != 0 {
		size += ch - size%ch
	}

	sig := &Signal{
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
	}

	buf := make([]float32, size)
	dropped := 0
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			sig.Samples = append(sig.Samples, buf[:n]...)
			empty = 0
		}

		if err == nil {
			if n == 0 {
				empty++
				if empty >= maxEmptyReads {
					return nil, fmt.Errorf("collect samples: %w", io.ErrNoProgress)
				}
			}
			continue
		}

		if errors.Is(err, io.EOF) {
			break
		}

		var serr *SampleError
		if errors.As(err, &serr) {
			dropped++
			log.WithFields(logrus.Fields{
				"function": "Collect",
				"offset":   serr.Offset,
				"index":    len(sig.Samples),
			}).WithError(serr.Err).Warn("Error reading sample, skipping")

			continue
		}

		return nil, fmt.Errorf("collect samples: %w", err)
	}

	log.WithFields(logrus.Fields{
		"function":    "Collect",
		"sample_rate": sig.SampleRate,
		"channels":    sig.Channels,
		"samples":     len(sig.Samples),
		"dropped":     dropped,
	}).Info("Decoded input")

	return sig, nil
}
