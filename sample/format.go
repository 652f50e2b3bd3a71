// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"
	"strings"
)

// Format is a native sample representation understood by output devices.
type Format int

const (
	// Int16 is signed 16-bit little-endian PCM.
	Int16 Format = iota
	// Float32 is IEEE-754 32-bit little-endian float, already normalized.
	Float32
)

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	return f >= 0 && int(f) < len(codecs)
}

// Size returns the number of bytes one sample occupies.
func (f Format) Size() int {
	if !f.Valid() {
		return 0
	}

	return codecs[f].size
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}

	return codecs[f].name
}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int16", "s16", "i16", "s16le":
		return Int16, nil
	case "float32", "f32", "f32le":
		return Float32, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}
