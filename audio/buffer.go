// SPDX-License-Identifier: EPL-2.0

package audio

// Buffer is the stateless description of a playable sound: decoded PCM, a
// procedural graph, a stream. Per-playback state lives in a Cursor created
// by CreateCursor.
//
// Block is only called from the mixer goroutine. The block it fills is owned
// by the caller until the next Block call on the same cursor and may be
// modified in place. Block returns false when the cursor has no more data.
type Buffer interface {
	CreateCursor() (Cursor, error)
	Block(cur Cursor, m Mixer, out *Block) bool
}

// Cursor is the mutable per-playback position and parameter set of a Buffer.
type Cursor interface {
	// SetParameter is a no-op for unknown ids.
	SetParameter(id string, value float32)
	DisableRepeat()
	Reset()
}

// NopCursor is a Cursor with no state. Embed it to implement only the
// methods a cursor cares about.
type NopCursor struct{}

func (NopCursor) SetParameter(string, float32) {}
func (NopCursor) DisableRepeat()               {}
func (NopCursor) Reset()                       {}
