// SPDX-License-Identifier: EPL-2.0

package audio

// Filter describes a block effect. NewInstance may be expensive and is only
// called from control goroutines; the returned instance is then used
// exclusively by the mixer goroutine.
type Filter interface {
	NewInstance() (FilterInstance, error)
}

// FilterInstance holds the per-playback state of a Filter.
type FilterInstance interface {
	// Apply processes b in place.
	Apply(m Mixer, b *Block)
}
