// SPDX-License-Identifier: EPL-2.0

// Package sample converts between native device sample layouts and the
// normalized float32 domain used everywhere else in echoplay.
//
// The set of native layouts is closed: Int16 and Float32. Each Format owns a
// row in a codec table, so code that knows its format up front can fetch the
// encoder once with EncoderFor and call it in a tight loop:
//
//	enc := sample.EncoderFor(sample.Int16)
//	for i, x := range samples {
//	    enc(out[i*2:], x)
//	}
//
// # Conversion rules
//
// Int16 uses math.MaxInt16 as full scale in both directions:
//
//	normalized = s / 32767
//	native     = int16(clamp(x, -1, 1) * 32767)   // truncated toward zero
//
// Conversion to Int16 saturates instead of wrapping. Int16 round trips land
// within one unit of the original value. Float32 is stored as-is, so its
// round trip is exact and out-of-range values are left for the device to clip.
package sample
