// SPDX-License-Identifier: EPL-2.0

package audio

// MaxChannel is the largest number of planar channels a Block can carry.
const MaxChannel = 8

// Block is a non-owning view over up to MaxChannel planar sample slices.
//
// Every non-nil Samples[c] holds at least SamplesCount values. Blocks handed
// to a Mixer have SamplesCount a multiple of 4.
type Block struct {
	Samples      [MaxChannel][]float32
	SampleRate   int
	SamplesCount int
	// Channels is the number of leading Samples entries that may be set.
	Channels int
	Category string
}

// Channel returns the first SamplesCount values of channel c, or nil when the
// channel carries no data.
func (b *Block) Channel(c int) []float32 {
	if c < 0 || c >= b.Channels || b.Samples[c] == nil {
		return nil
	}
	return b.Samples[c][:b.SamplesCount]
}

// Reset clears the view without touching the underlying samples.
func (b *Block) Reset() {
	*b = Block{}
}

// Storage is a reusable set of planar sample slices owned by a producer.
// It grows but never shrinks.
type Storage struct {
	data [MaxChannel][]float32
}

// View points b at the first n samples of the first channels slices of s,
// allocating as needed. Existing sample values are preserved up to the
// previous capacity.
func (s *Storage) View(b *Block, channels, n int) {
	if channels > MaxChannel {
		channels = MaxChannel
	}
	for c := range channels {
		if cap(s.data[c]) < n {
			grown := make([]float32, n)
			copy(grown, s.data[c])
			s.data[c] = grown
		}
		b.Samples[c] = s.data[c][:n]
	}
	for c := channels; c < MaxChannel; c++ {
		b.Samples[c] = nil
	}
	b.SamplesCount = n
	b.Channels = channels
}

// CopyBlock copies src into storage s and points dst at the copy.
func (s *Storage) CopyBlock(dst *Block, src *Block) {
	s.View(dst, src.Channels, src.SamplesCount)
	for c := range src.Channels {
		if src.Samples[c] == nil {
			dst.Samples[c] = nil
			continue
		}
		copy(dst.Samples[c], src.Samples[c][:src.SamplesCount])
	}
	dst.SampleRate = src.SampleRate
	dst.Category = src.Category
}

// AlignedCount rounds n up to the mixer granularity of 4 samples.
func AlignedCount(n int) int {
	return (n + 3) &^ 3
}
