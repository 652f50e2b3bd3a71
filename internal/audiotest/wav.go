// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WAVHeader describes the fmt chunk written by BuildWAV.
type WAVHeader struct {
	Format     uint16 // 1 = PCM, 3 = IEEE float
	Channels   uint16
	SampleRate uint32
	BitDepth   uint16
}

// PCM16 is the header of a plain 16-bit PCM file.
func PCM16(rate, channels int) WAVHeader {
	return WAVHeader{Format: 1, Channels: uint16(channels), SampleRate: uint32(rate), BitDepth: 16}
}

// BuildWAV assembles a RIFF/WAVE file around data. data is written as is, so
// odd-sized or otherwise broken payloads can be produced.
func BuildWAV(h WAVHeader, data []byte) []byte {
	blockAlign := h.Channels * h.BitDepth / 8
	byteRate := h.SampleRate * uint32(blockAlign)

	pad := len(data) % 2
	out := make([]byte, 0, 44+len(data)+pad)

	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(data)+pad))
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, h.Format)
	out = binary.LittleEndian.AppendUint16(out, h.Channels)
	out = binary.LittleEndian.AppendUint32(out, h.SampleRate)
	out = binary.LittleEndian.AppendUint32(out, byteRate)
	out = binary.LittleEndian.AppendUint16(out, blockAlign)
	out = binary.LittleEndian.AppendUint16(out, h.BitDepth)

	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, data...)
	if pad == 1 {
		out = append(out, 0)
	}

	return out
}

// Int16LE packs samples as little-endian 16-bit PCM.
func Int16LE(samples ...int16) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}

	return out
}

// WriteFile stores data under name in a per-test temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	return path
}
