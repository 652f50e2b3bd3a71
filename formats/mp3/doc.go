// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always emits interleaved 16-bit stereo, so every Source from this
// package reports two channels; mono files come out with both channels
// equal. Wrap the source in an audio.MonoMixer to get one channel back.
package mp3
