// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds Buffer and Driver doubles shared by the package
// tests.
package audiotest

import (
	"math"
	"sync"

	"github.com/ik5/audmix/audio"
)

// MockBuffer is a finite audio.Buffer whose samples come from a waveform
// function. It produces blocks of BlockSize samples.
type MockBuffer struct {
	SampleRate   int
	Channels     int
	TotalSamples int
	BlockSize    int
	Category     string
	Waveform     func(sample, channel int) float32

	mu      sync.Mutex
	cursors []*MockCursor
}

var _ audio.Buffer = (*MockBuffer)(nil)

// NewMockBuffer creates a buffer of totalSamples samples per channel.
func NewMockBuffer(sampleRate, channels, totalSamples int, waveform func(sample, channel int) float32) *MockBuffer {
	return &MockBuffer{
		SampleRate:   sampleRate,
		Channels:     channels,
		TotalSamples: totalSamples,
		BlockSize:    1024,
		Waveform:     waveform,
	}
}

// NewConstantBuffer creates a buffer holding value on every channel.
func NewConstantBuffer(sampleRate, channels, totalSamples int, value float32) *MockBuffer {
	return NewMockBuffer(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

// NewChannelBuffer creates a buffer whose channel c holds values[c].
func NewChannelBuffer(sampleRate, totalSamples int, values ...float32) *MockBuffer {
	return NewMockBuffer(sampleRate, len(values), totalSamples, func(_ int, c int) float32 {
		return values[c]
	})
}

// NewCountingBuffer creates a mono buffer whose sample i holds float32(i).
func NewCountingBuffer(sampleRate, totalSamples int) *MockBuffer {
	return NewMockBuffer(sampleRate, 1, totalSamples, func(i, _ int) float32 {
		return float32(i)
	})
}

// NewSineBuffer creates a buffer carrying a full scale sine wave.
func NewSineBuffer(sampleRate, channels, totalSamples int, frequency float64) *MockBuffer {
	return NewMockBuffer(sampleRate, channels, totalSamples, func(i, _ int) float32 {
		t := float64(i) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// MockCursor records what the mixer did to it.
type MockCursor struct {
	Pos int

	mu       sync.Mutex
	params   map[string]float32
	writes   int
	resets   int
	noRepeat bool
	storage  audio.Storage
}

func (c *MockCursor) SetParameter(id string, value float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.params == nil {
		c.params = make(map[string]float32)
	}
	c.params[id] = value
	c.writes++
}

func (c *MockCursor) DisableRepeat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.noRepeat = true
}

func (c *MockCursor) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Pos = 0
	c.resets++
}

// Parameter returns the last value written for id.
func (c *MockCursor) Parameter(id string) (float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.params[id]
	return v, ok
}

// Writes counts SetParameter calls.
func (c *MockCursor) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.writes
}

func (c *MockCursor) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resets
}

func (c *MockCursor) RepeatDisabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.noRepeat
}

func (b *MockBuffer) CreateCursor() (audio.Cursor, error) {
	cur := &MockCursor{}

	b.mu.Lock()
	b.cursors = append(b.cursors, cur)
	b.mu.Unlock()

	return cur, nil
}

// Cursors returns every cursor created so far.
func (b *MockBuffer) Cursors() []*MockCursor {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*MockCursor(nil), b.cursors...)
}

func (b *MockBuffer) Block(cur audio.Cursor, _ audio.Mixer, out *audio.Block) bool {
	c := cur.(*MockCursor)
	if c.Pos >= b.TotalSamples {
		return false
	}

	n := min(b.BlockSize, b.TotalSamples-c.Pos)
	c.storage.View(out, b.Channels, audio.AlignedCount(n))
	for ch := range b.Channels {
		buf := out.Samples[ch]
		for i := range n {
			buf[i] = b.Waveform(c.Pos+i, ch)
		}
		clear(buf[n:])
	}
	out.SampleRate = b.SampleRate
	out.Category = b.Category
	c.Pos += n
	return true
}

// FailingBuffer refuses to create cursors.
type FailingBuffer struct {
	Err error
}

func (f FailingBuffer) CreateCursor() (audio.Cursor, error)              { return nil, f.Err }
func (FailingBuffer) Block(audio.Cursor, audio.Mixer, *audio.Block) bool { return false }
