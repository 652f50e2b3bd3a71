// SPDX-License-Identifier: EPL-2.0

// Package effect holds the offline echo applied to a decoded signal before
// playback.
//
// ApplyDelay is a pure function over normalized samples. It never validates
// its parameters: a non-positive sample rate or delay simply yields an offset
// of zero.
package effect
