// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/dbuf"
	"github.com/ik5/audmix/internal/logging"
	"github.com/ik5/audmix/internal/ring"
	"github.com/ik5/audmix/internal/sample"
)

// PlayOptions configure one playback on a Channel.
type PlayOptions struct {
	Category string
	GainDB   float32
	Repeat   bool
	// RepeatFrom is the number of samples skipped after each rewind.
	RepeatFrom int
}

// ChannelStats are diagnostic counters of a Channel.
type ChannelStats struct {
	Frames              uint64
	ParameterOverwrites uint64
}

type stateSound struct {
	buffer     audio.Buffer
	cursor     audio.Cursor
	category   string
	gain       float32
	repeat     bool
	repeatFrom int
}

type stateFilter struct {
	inst audio.FilterInstance
}

type paramWrite struct {
	id    string
	value float32
}

// Channel is one virtual playback slot producing hardware-rate frames from
// whatever Buffer is currently assigned to it.
type Channel struct {
	id           int
	sampleRate   int
	frameSamples int

	volume atomic.Uint32
	pitch  atomic.Uint32

	// ctl orders seq changes with sound publication across control
	// goroutines. The mixer never takes it.
	ctl   sync.Mutex
	seq   atomic.Uint64
	sound dbuf.Mailbox[stateSound]

	filter        dbuf.Mailbox[stateFilter]
	params        dbuf.Mailbox[ring.Ring[paramWrite]]
	disableRepeat atomic.Bool
	fade          atomic.Int64
	playing       atomic.Bool

	frames     atomic.Uint64
	overwrites atomic.Uint64

	// Owned by the mixer goroutine.
	cur         stateSound
	active      *stateSound
	inst        audio.FilterInstance
	out         [audio.MaxChannel][]float32
	outChannels int
	filled      int
	consumed    bool
	ended       bool
	rewound     bool
	skip        int
	frac        float64
	fadeLeft    int
	fadeTotal   int
	scratch     audio.Block
}

// NewChannel creates an idle channel producing frames of frameSamples
// samples at sampleRate. Systems create their channels themselves; this is
// for offline rendering.
func NewChannel(id, sampleRate, frameSamples int) *Channel {
	c := &Channel{
		id:           id,
		sampleRate:   sampleRate,
		frameSamples: frameSamples &^ 3,
	}
	c.volume.Store(math.Float32bits(1))
	c.pitch.Store(math.Float32bits(1))
	return c
}

func (c *Channel) ID() int           { return c.id }
func (c *Channel) SampleRate() int   { return c.sampleRate }
func (c *Channel) FrameSamples() int { return c.frameSamples }
func (c *Channel) Volume() float32   { return math.Float32frombits(c.volume.Load()) }
func (c *Channel) Pitch() float32    { return math.Float32frombits(c.pitch.Load()) }

// SetVolume sets the channel gain, clamped to [0, 1].
func (c *Channel) SetVolume(v float32) {
	c.volume.Store(math.Float32bits(sample.Clamp01(v)))
}

// SetPitch sets the playback rate multiplier.
func (c *Channel) SetPitch(v float32) {
	c.pitch.Store(math.Float32bits(v))
}

// Play assigns buf to the channel. The current sound keeps playing until
// the mixer starts its next frame.
func (c *Channel) Play(buf audio.Buffer, opts PlayOptions) error {
	_, err := c.play(buf, opts)
	return err
}

func (c *Channel) play(buf audio.Buffer, opts PlayOptions) (uint64, error) {
	if buf == nil {
		return 0, audio.ErrNilBuffer
	}

	cur, err := buf.CreateCursor()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", audio.ErrCursorUnavailable, err)
	}
	if cur == nil {
		return 0, audio.ErrCursorUnavailable
	}

	c.ctl.Lock()
	defer c.ctl.Unlock()

	seq := c.seq.Add(1)
	c.params.Take()
	c.disableRepeat.Store(false)
	c.fade.Store(0)
	c.sound.Publish(&stateSound{
		buffer:     buf,
		cursor:     cur,
		category:   opts.Category,
		gain:       sample.DBToGain(opts.GainDB),
		repeat:     opts.Repeat,
		repeatFrom: max(opts.RepeatFrom, 0) &^ 3,
	})
	return seq, nil
}

// Stop ends the current playback at the next frame.
func (c *Channel) Stop() {
	c.ctl.Lock()
	defer c.ctl.Unlock()

	c.seq.Add(1)
	c.sound.Publish(&stateSound{})
}

// stopIf stops the channel only if seq is still its current playback.
func (c *Channel) stopIf(seq uint64) {
	c.ctl.Lock()
	defer c.ctl.Unlock()

	if c.seq.CompareAndSwap(seq, seq+1) {
		c.sound.Publish(&stateSound{})
	}
}

// IsPlaying reports whether a sound is assigned, counting one that was
// played but not yet picked up by the mixer.
func (c *Channel) IsPlaying() bool {
	if p := c.sound.Peek(); p != nil {
		return p.buffer != nil
	}
	return c.playing.Load()
}

// SetFilter replaces the channel filter. The instance is created here, on
// the calling goroutine. A nil filter removes it.
func (c *Channel) SetFilter(f audio.Filter) error {
	if f == nil {
		c.filter.Publish(&stateFilter{})
		return nil
	}

	inst, err := f.NewInstance()
	if err != nil {
		return fmt.Errorf("creating filter instance: %w", err)
	}
	c.filter.Publish(&stateFilter{inst: inst})
	return nil
}

// SetParameter queues a parameter write for the current cursor. At most
// ParameterQueueCapacity writes are carried into one frame; a further write
// before the mixer drains the queue replaces the oldest.
func (c *Channel) SetParameter(id string, value float32) {
	var overwrote bool
	c.params.Update(func(pending *ring.Ring[paramWrite]) *ring.Ring[paramWrite] {
		var q *ring.Ring[paramWrite]
		if pending == nil {
			q = ring.New[paramWrite](ParameterQueueCapacity)
		} else {
			q = pending.Clone()
		}
		overwrote = q.PushBack(paramWrite{id: id, value: value})
		return q
	})
	if overwrote {
		c.overwrites.Add(1)
	}
}

// DisableRepeat lets the current sound run out instead of rewinding.
func (c *Channel) DisableRepeat() {
	c.disableRepeat.Store(true)
}

// FadeOff ramps the current sound to silence over samples hardware samples
// and then stops it.
func (c *Channel) FadeOff(samples int) {
	if samples <= 0 {
		c.Stop()
		return
	}
	c.fade.Store(int64(samples))
}

func (c *Channel) Stats() ChannelStats {
	return ChannelStats{
		Frames:              c.frames.Load(),
		ParameterOverwrites: c.overwrites.Load(),
	}
}

// Block produces the next hardware frame into out. It reports false when
// the channel is idle. Only one goroutine may call Block.
func (c *Channel) Block(m audio.Mixer, out *audio.Block) bool {
	c.takeState()

	s := c.active
	if s == nil {
		return false
	}
	if c.ended {
		c.finish()
		return false
	}

	if q := c.params.Take(); q != nil {
		for !q.Empty() {
			p, _ := q.PopFront()
			s.cursor.SetParameter(p.id, p.value)
		}
	}
	if c.disableRepeat.Swap(false) {
		s.repeat = false
		s.cursor.DisableRepeat()
	}
	if n := c.fade.Swap(0); n > 0 {
		c.fadeLeft, c.fadeTotal = int(n), int(n)
	}

	if c.consumed {
		c.shift()
	}

	for c.filled < c.frameSamples {
		if c.pull(m, s) {
			continue
		}
		if c.filled == 0 {
			c.finish()
			return false
		}
		for ch := range c.outChannels {
			clear(c.out[ch][c.filled:c.frameSamples])
		}
		c.filled = c.frameSamples
		c.ended = true
	}

	out.Reset()
	for ch := range c.outChannels {
		out.Samples[ch] = c.out[ch][:c.frameSamples]
	}
	out.Channels = c.outChannels
	out.SamplesCount = c.frameSamples
	out.SampleRate = c.sampleRate
	out.Category = s.category

	if c.fadeTotal > 0 {
		c.applyFade(out)
	}

	c.consumed = true
	c.frames.Add(1)
	return true
}

// takeState applies at most one pending sound and filter. The sound is
// acknowledged only after it is installed so IsPlaying never observes a gap.
func (c *Channel) takeState() {
	if next := c.sound.Peek(); next != nil {
		c.begin(next)
		c.sound.Ack(next)
	}
	if f := c.filter.Take(); f != nil {
		c.inst = f.inst
	}
}

func (c *Channel) begin(next *stateSound) {
	c.cur = *next
	c.active = nil
	if c.cur.buffer != nil {
		c.active = &c.cur
	}
	c.playing.Store(c.active != nil)

	c.outChannels = 0
	c.filled = 0
	c.consumed = false
	c.ended = false
	c.rewound = false
	c.skip = 0
	c.frac = 0
	c.fadeLeft, c.fadeTotal = 0, 0
}

func (c *Channel) finish() {
	logging.Logger().Debug("channel playback finished", "channel", c.id)

	c.active = nil
	c.cur = stateSound{}
	c.playing.Store(false)
	c.filled = 0
	c.consumed = false
	c.ended = false
}

// shift discards the frame exposed by the previous call.
func (c *Channel) shift() {
	c.consumed = false
	if c.filled <= c.frameSamples {
		c.filled = 0
		return
	}
	for ch := range c.outChannels {
		copy(c.out[ch], c.out[ch][c.frameSamples:c.filled])
	}
	c.filled -= c.frameSamples
}

// pull appends one source block to the accumulation ring. It reports false
// once the source is finished, rewinding first when repeating.
func (c *Channel) pull(m audio.Mixer, s *stateSound) bool {
	blk := &c.scratch
	for {
		if s.buffer.Block(s.cursor, m, blk) && blk.SamplesCount > 0 {
			offset := 0
			if c.skip > 0 {
				if blk.SamplesCount <= c.skip {
					c.skip -= blk.SamplesCount
					continue
				}
				offset, c.skip = c.skip, 0
			}
			c.rewound = false
			return c.accumulate(m, s, blk, offset)
		}

		// A rewind that yields nothing ends playback instead of spinning.
		if !s.repeat || c.rewound {
			return false
		}
		s.cursor.Reset()
		c.rewound = true
		c.skip = s.repeatFrom
	}
}

// minStretchOutput is the resolution of the 16.16 stretch step.
const minStretchOutput = 1.0 / 65536

// accumulate appends blk to the ring. The fractional output position is
// carried across blocks so stretched playback keeps its length. It reports
// false when blk maps to less than one 16.16 step of output.
func (c *Channel) accumulate(m audio.Mixer, s *stateSound, blk *audio.Block, offset int) bool {
	if c.inst != nil {
		c.inst.Apply(m, blk)
	}

	count := blk.SamplesCount - offset
	gain := c.Volume() * s.gain

	outCount, span := count, count
	stretch := false
	if blk.SampleRate > 0 {
		rate := float64(blk.SampleRate) * float64(c.Pitch())
		if rate > 0 && rate != float64(c.sampleRate) {
			exact := float64(count) * float64(c.sampleRate) / rate
			if exact < minStretchOutput {
				return false
			}
			exact += c.frac
			outCount = int(exact)
			c.frac = exact - float64(outCount)
			span = audio.AlignedCount(outCount)
			stretch = true
		}
	}
	if outCount <= 0 {
		return true
	}

	channels := min(max(blk.Channels, 1), audio.MaxChannel)
	c.ensure(channels, c.filled+span)

	// Stretch writes the aligned span; samples past outCount are
	// overwritten by the next block.
	for ch := range max(channels, c.outChannels) {
		dst := c.out[ch][c.filled : c.filled+span]
		src := blk.Channel(ch)
		if src == nil {
			m.Mute(dst)
			continue
		}
		src = src[offset:]
		if stretch {
			m.Stretch(dst, src, gain)
		} else {
			m.MulConstTo(dst, src, gain)
		}
	}
	c.filled += outCount
	return true
}

// ensure grows the ring to hold n samples on channels channels. Channels
// that appear mid-frame start silent.
func (c *Channel) ensure(channels, n int) {
	size := max(n, OutputBlockCount*c.frameSamples)
	for ch := range max(channels, c.outChannels) {
		if len(c.out[ch]) < n {
			grown := make([]float32, size)
			copy(grown, c.out[ch])
			c.out[ch] = grown
		}
		if ch >= c.outChannels {
			clear(c.out[ch][:c.filled])
		}
	}
	c.outChannels = max(channels, c.outChannels)
}

// applyFade ramps out linearly and marks the sound ended once the ramp is
// exhausted.
func (c *Channel) applyFade(out *audio.Block) {
	total := float32(c.fadeTotal)
	left := c.fadeLeft
	for ch := range out.Channels {
		buf := out.Samples[ch]
		for i := range buf {
			g := float32(max(left-i, 0)) / total
			buf[i] *= g
		}
	}

	c.fadeLeft -= c.frameSamples
	if c.fadeLeft <= 0 {
		c.fadeLeft, c.fadeTotal = 0, 0
		c.ended = true
	}
}
