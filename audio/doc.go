// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoded-input side of echoplay.
//
// This package contains:
//   - Source interface for streaming decoded audio
//   - Registry mapping file extensions to decoders
//   - MonoMixer for channel downmixing
//   - Signal and Collect for pulling a whole source into memory
//
// # Source Interface
//
// The Source interface is the foundation of the input pipeline:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 values in [-1.0, 1.0]. Decoders in the
// formats tree and the MonoMixer all implement Source, so they can be
// chained.
//
// # Errors
//
// io.EOF marks the normal end of a stream. A decoder that cannot make sense
// of one sample but can go on reports a *SampleError; Collect logs it and
// skips the sample. Any other error is fatal:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    var serr *audio.SampleError
//	    if errors.As(err, &serr) {
//	        continue
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Format Registry
//
// The registry maps extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.ForPath("piano.wav")
//
// Lookups ignore case.
package audio
