// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/sample"
)

// DefaultBlockSize is the number of frames produced per Block call.
const DefaultBlockSize = 1024

// Options configure a Sound.
type Options struct {
	// GainDB is the static gain applied by graph Source nodes and Player.
	GainDB float32
	// Category tags every block produced by the sound.
	Category string
	// BlockSize in frames, rounded up to a multiple of 4. Zero selects
	// DefaultBlockSize.
	BlockSize int
}

// Sound is a resource-managed PCM sound. It is immutable and implements
// audio.Buffer; playback state lives in its cursors.
type Sound struct {
	pcm       *PCM
	gainDB    float32
	gain      float32
	category  string
	blockSize int
}

var _ audio.Buffer = (*Sound)(nil)

func New(pcm *PCM, opts Options) *Sound {
	bs := opts.BlockSize
	if bs <= 0 {
		bs = DefaultBlockSize
	}
	return &Sound{
		pcm:       pcm,
		gainDB:    opts.GainDB,
		gain:      sample.DBToGain(opts.GainDB),
		category:  opts.Category,
		blockSize: audio.AlignedCount(bs),
	}
}

func (s *Sound) PCM() *PCM        { return s.pcm }
func (s *Sound) GainDB() float32  { return s.gainDB }
func (s *Sound) Gain() float32    { return s.gain }
func (s *Sound) Category() string { return s.category }
func (s *Sound) SampleRate() int  { return s.pcm.SampleRate }
func (s *Sound) Frames() int      { return s.pcm.Frames() }
func (s *Sound) BlockSize() int   { return s.blockSize }

type cursor struct {
	audio.NopCursor
	pos     int
	storage audio.Storage
}

func (c *cursor) Reset() { c.pos = 0 }

func (s *Sound) CreateCursor() (audio.Cursor, error) {
	if s.pcm == nil || s.pcm.Frames() == 0 {
		return nil, ErrEmptySound
	}
	return &cursor{}, nil
}

// Block copies the next BlockSize frames into the cursor's storage. The
// final block is zero padded to the mixer granularity.
func (s *Sound) Block(cur audio.Cursor, _ audio.Mixer, out *audio.Block) bool {
	c, ok := cur.(*cursor)
	if !ok {
		return false
	}

	frames := s.pcm.Frames()
	if c.pos >= frames {
		return false
	}

	n := min(s.blockSize, frames-c.pos)
	aligned := audio.AlignedCount(n)
	c.storage.View(out, s.pcm.Channels(), aligned)
	for ch, data := range s.pcm.Data {
		dst := out.Samples[ch]
		copy(dst, data[c.pos:c.pos+n])
		clear(dst[n:])
	}
	c.pos += n

	out.SampleRate = s.pcm.SampleRate
	out.Category = s.category
	return true
}
