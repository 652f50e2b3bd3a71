// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes 16-bit PCM WAV files.
//
// Decoding and encoding go through github.com/go-audio/wav. The decoder
// uses it to validate the RIFF layout, read the fmt chunk and skip to the
// data chunk; samples are then read straight from the data chunk and
// normalized by 32767.
//
// # Decoding WAV Files
//
//	file, _ := os.Open("piano.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Only PCM with 16 bits per sample is accepted; anything else fails with
// ErrOnlyPCM16bitSupported. A data chunk with an odd byte count yields every
// complete sample followed by one *audio.SampleError wrapping
// ErrTruncatedSample.
//
// # Writing WAV Files
//
// WriteSignal and WriteFile store an audio.Signal as 16-bit PCM:
//
//	err := wav.WriteFile("out.wav", sig)
package wav
