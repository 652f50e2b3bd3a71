// SPDX-License-Identifier: EPL-2.0

package playback

import "sync"

// Buffer owns a processed signal and the cursor the output callback reads
// from. The samples are never modified after NewBuffer; only the cursor moves.
type Buffer struct {
	mu      sync.Mutex
	samples []float32
	cursor  int
}

// NewBuffer takes ownership of samples. The caller must not modify them
// afterwards.
func NewBuffer(samples []float32) *Buffer {
	return &Buffer{samples: samples}
}

// ReadBlock copies up to len(dst) samples starting at the cursor into dst
// and advances the cursor by the number copied.
//
// It returns fewer than len(dst), down to zero, once the signal runs out.
// Callers fill the rest of their block with silence themselves. ReadBlock
// never allocates and holds the lock only for the copy.
func (b *Buffer) ReadBlock(dst []float32) int {
	b.mu.Lock()
	n := copy(dst, b.samples[b.cursor:])
	b.cursor += n
	b.mu.Unlock()

	return n
}

// Len is the total number of samples in the signal.
func (b *Buffer) Len() int { return len(b.samples) }

// Position returns a snapshot of the cursor.
func (b *Buffer) Position() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cursor
}

// Remaining is the number of samples not yet handed out.
func (b *Buffer) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.samples) - b.cursor
}

// Exhausted reports whether every sample has been read.
func (b *Buffer) Exhausted() bool { return b.Remaining() == 0 }
