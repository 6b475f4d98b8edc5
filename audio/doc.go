// SPDX-License-Identifier: EPL-2.0

// Package audio defines the contracts shared by every audmix stage.
//
// # Blocks
//
// A Block is a planar view of up to MaxChannel float32 slices holding the
// same number of samples. Producers own the backing memory, usually through
// a reusable Storage, and hand out views:
//
//	var s audio.Storage
//	var b audio.Block
//	s.View(&b, 2, 1024)
//
// Counts handed to a Mixer are multiples of 4; AlignedCount rounds up.
//
// # Mixer
//
// Mixer is the small vector primitive set (scale, scale-into, accumulate,
// stretch, mute) every stage computes with. DefaultMixer is the portable
// implementation; a Driver may supply its own from Create.
//
// # Buffers and Cursors
//
// A Buffer describes something playable and is shared between playbacks.
// CreateCursor returns the per-playback state; Block fills the next block
// for that cursor and reports false once it is exhausted:
//
//	cur, err := buf.CreateCursor()
//	for buf.Block(cur, audio.DefaultMixer{}, &b) {
//	    // consume b
//	}
//
// # Filters and Drivers
//
// A Filter creates FilterInstances that process blocks in place. A Driver
// accepts hardware frames from the mixer goroutine one at a time; see the
// driver sub-packages of audmix for implementations.
package audio
