// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"encoding/binary"
	"math"
)

// maxMagnitude is the scale between a normalized sample and Int16 storage.
// Positive full scale (32767) is used for both directions, so -32768 decodes
// to slightly below -1.0.
const maxMagnitude float32 = math.MaxInt16

// Encoder writes one normalized sample into dst in a native representation.
// dst must be at least Format.Size() bytes long.
type Encoder func(dst []byte, x float32)

// Decoder reads one native sample from src and returns it normalized.
type Decoder func(src []byte) float32

type codec struct {
	name   string
	size   int
	encode Encoder
	decode Decoder
}

// codecs is indexed by Format. Adding a Format means adding a row here.
var codecs = [...]codec{
	Int16: {
		name:   "int16",
		size:   2,
		encode: encodeInt16,
		decode: decodeInt16,
	},
	Float32: {
		name:   "float32",
		size:   4,
		encode: encodeFloat32,
		decode: decodeFloat32,
	},
}

// Int16ToFloat32 normalizes a 16-bit sample by dividing by math.MaxInt16.
func Int16ToFloat32(s int16) float32 {
	return float32(s) / maxMagnitude
}

// Float32ToInt16 converts a normalized sample to 16-bit storage.
//
// Values outside [-1, 1] saturate at ±32767 and NaN maps to 0. The scaled
// value is truncated toward zero, not rounded.
func Float32ToInt16(x float32) int16 {
	switch {
	case math.IsNaN(float64(x)):
		return 0
	case x > 1:
		x = 1
	case x < -1:
		x = -1
	}

	return int16(x * maxMagnitude)
}

func encodeInt16(dst []byte, x float32) {
	binary.LittleEndian.PutUint16(dst, uint16(Float32ToInt16(x)))
}

func decodeInt16(src []byte) float32 {
	return Int16ToFloat32(int16(binary.LittleEndian.Uint16(src)))
}

func encodeFloat32(dst []byte, x float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(x))
}

func decodeFloat32(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src))
}

// EncoderFor returns the encoder of f so hot loops can skip the table lookup.
// f must be valid.
func EncoderFor(f Format) Encoder { return codecs[f].encode }

// DecoderFor returns the decoder of f. f must be valid.
func DecoderFor(f Format) Decoder { return codecs[f].decode }

// Encode writes x into dst using the little-endian native layout of f.
func Encode(f Format, dst []byte, x float32) { codecs[f].encode(dst, x) }

// Decode reads a little-endian native sample of format f from src.
func Decode(f Format, src []byte) float32 { return codecs[f].decode(src) }

// Silence writes native zero for every whole sample in dst, and zeroes any
// trailing partial-sample bytes as well.
func Silence(f Format, dst []byte) {
	// Native zero is all-zero bytes for both Int16 and Float32.
	clear(dst)
}
