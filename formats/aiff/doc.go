// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF files with github.com/go-audio/aiff.
//
// Samples are normalized by 32767, the same scale the wav package uses, so a
// file sounds the same whichever container it came in.
package aiff
