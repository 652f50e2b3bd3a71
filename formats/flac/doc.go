// SPDX-License-Identifier: EPL-2.0

// Package flac decodes 16-bit FLAC files with github.com/mewkiz/flac.
//
// Each FLAC frame carries one subframe per channel; the source interleaves
// them and normalizes by 32767 like the other 16-bit decoders.
package flac
