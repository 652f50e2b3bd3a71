// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The decoder output is already normalized float32, so samples are passed
// through unchanged.
package vorbis
