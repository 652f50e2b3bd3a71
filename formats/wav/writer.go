// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/echoplay/audio"
	"github.com/ik5/echoplay/sample"
)

const writeChunk = 8192

// WriteSignal writes sig as a 16-bit PCM WAV. Samples are converted with
// sample.Float32ToInt16, so out-of-range values saturate.
func WriteSignal(w io.WriteSeeker, sig *audio.Signal) error {
	if err := sig.Validate(); err != nil {
		return err
	}

	enc := wav.NewEncoder(w, sig.SampleRate, 16, sig.Channels, formatPCM)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: sig.Channels,
			SampleRate:  sig.SampleRate,
		},
		Data:           make([]int, 0, min(len(sig.Samples), writeChunk)),
		SourceBitDepth: 16,
	}

	// At least one Write, even when empty, so the header is emitted.
	rest := sig.Samples
	for first := true; first || len(rest) > 0; first = false {
		n := min(len(rest), writeChunk)

		buf.Data = buf.Data[:0]
		for _, x := range rest[:n] {
			buf.Data = append(buf.Data, int(sample.Float32ToInt16(x)))
		}
		rest = rest[n:]

		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("write PCM data: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish WAV: %w", err)
	}

	return nil
}

// WriteFile creates path and encodes sig into it.
func WriteFile(path string, sig *audio.Signal) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w", cerr)
		}
	}()

	return WriteSignal(f, sig)
}
