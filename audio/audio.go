// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Source is a stream of decoded, normalized samples.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with
	// err == io.EOF, the stream is finished. A *SampleError means a sample
	// was dropped and reading may continue.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys (e.g., "wav", "mp3", "ogg") to decoders.
type Registry struct {
	codecs map[string]Decoder

	mtx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// ForPath picks the decoder registered for the extension of path.
func (r *Registry) ForPath(path string) (Decoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}

	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnsupportedFormat, ext, strings.Join(r.Formats(), ", "))
	}

	return d, nil
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	formats := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		formats = append(formats, k)
	}
	slices.Sort(formats)

	return formats
}
