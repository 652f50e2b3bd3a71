// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer downmixes an interleaved source to one channel by averaging the
// channels of each frame.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }
func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadSamples fills dst with mono samples. The source error, including a
// *SampleError, is passed through with whatever frames were read. A frame
// left incomplete by a dropped sample is discarded.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels <= 1 {
		return m.src.ReadSamples(dst)
	}

	needed := len(dst) * channels
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, max(needed, 8192))
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}

	frames := n / channels
	inv := float32(1) / float32(channels)

	switch channels {
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	default:
		for f := range frames {
			sum := float32(0)
			base := f * channels
			for c := range channels {
				sum += m.tmp[base+c]
			}
			dst[f] = sum * inv
		}
	}

	return frames, err
}
