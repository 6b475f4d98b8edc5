// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/logging"
	"github.com/ik5/audmix/internal/ring"
	"github.com/ik5/audmix/internal/sample"
)

// frameBuffer is one pooled hardware frame.
type frameBuffer struct {
	storage audio.Storage
	block   audio.Block
}

// System owns the channels, the driver and the mixer goroutine.
type System struct {
	cfg Config

	// life serializes New, Suspend, Resume and Close.
	life      sync.Mutex
	driver    audio.Driver
	mixer     audio.Mixer
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   bool
	closed    bool
	suspended bool

	// channelsMu guards the channel slice, not the channels.
	channelsMu sync.Mutex
	channels   []*Channel

	pool     *ring.Ring[*frameBuffer]
	requests []audio.Block
	// pending is a mixed frame the last run did not submit. It is only
	// touched by the mixer goroutine, which start and halt order.
	pending *frameBuffer

	volume     atomic.Uint32
	categories atomic.Pointer[map[string]float32]
	catMu      sync.Mutex

	clock        atomic.Uint64
	duration     atomic.Int64
	submitErrors atomic.Uint64
}

// New validates cfg, creates the driver and the channels, and starts the
// mixer goroutine. On error nothing is left running.
func New(cfg Config) (*System, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	s := &System{
		cfg:      cfg,
		pool:     ring.New[*frameBuffer](PoolCapacity),
		requests: make([]audio.Block, cfg.Channels),
	}
	s.volume.Store(math.Float32bits(1))
	s.categories.Store(&map[string]float32{})

	for range PoolCapacity {
		fb := &frameBuffer{}
		fb.storage.View(&fb.block, cfg.Driver.HWChannels, cfg.Driver.FrameSamples)
		fb.block.SampleRate = cfg.Driver.SampleRate
		s.pool.PushBack(fb)
	}

	if err := s.openDriver(); err != nil {
		return nil, err
	}

	s.channels = make([]*Channel, cfg.Channels)
	for i := range s.channels {
		s.channels[i] = NewChannel(i, cfg.Driver.SampleRate, cfg.Driver.FrameSamples)
	}

	s.life.Lock()
	s.start()
	s.life.Unlock()

	logging.Logger().Info("audio system created",
		"channels", cfg.Channels,
		"sample_rate", cfg.Driver.SampleRate,
		"hw_channels", cfg.Driver.HWChannels,
		"frame_samples", cfg.Driver.FrameSamples,
	)
	return s, nil
}

func (s *System) openDriver() error {
	drv := s.cfg.NewDriver()
	if drv == nil {
		return fmt.Errorf("%w: factory returned no driver", ErrDriverCreate)
	}

	m, err := drv.Create(s.cfg.Driver)
	if err != nil {
		logging.Logger().Warn("audio driver create failed", "error", err)
		return fmt.Errorf("%w: %w", ErrDriverCreate, err)
	}
	if m == nil {
		m = audio.DefaultMixer{}
	}

	s.driver = drv
	s.mixer = m
	return nil
}

// start launches the mixer goroutine. s.life must be held.
func (s *System) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	s.wg.Add(1)
	go s.run(ctx, s.driver, s.mixer)
}

// halt stops the mixer goroutine and destroys the driver. Destroy is the
// only way to release a goroutine blocked in Wait, so it runs before the
// join; the driver contract makes a racing Submit fail with
// ErrDriverClosed. s.life must be held.
func (s *System) halt() {
	if !s.running {
		return
	}
	s.cancel()
	if err := s.driver.Destroy(); err != nil {
		logging.Logger().Warn("audio driver destroy failed", "error", err)
	}
	s.wg.Wait()
	s.running = false
	s.driver = nil
	s.mixer = nil
}

func (s *System) run(ctx context.Context, drv audio.Driver, m audio.Mixer) {
	defer s.wg.Done()

	// No portable thread priority; a dedicated OS thread is the closest.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for ctx.Err() == nil {
		fb := s.pending
		s.pending = nil
		if fb == nil {
			start := time.Now()

			fb, _ = s.pool.PopFront()
			s.mix(m, &fb.block)
			m.Synchronize()
			s.clock.Add(uint64(s.cfg.Driver.FrameSamples))

			if ctx.Err() != nil {
				s.pending = fb
				return
			}
			s.smooth(time.Since(start))
		}

		drv.Wait()
		if ctx.Err() != nil {
			s.pending = fb
			return
		}
		if err := drv.Submit(&fb.block); err != nil {
			if s.submitErrors.Add(1) == 1 {
				logging.Logger().Warn("audio driver submit failed", "error", err)
			}
		}
		s.pool.PushBack(fb)
	}
}

// mix pulls every channel and routes the results onto out.
func (s *System) mix(m audio.Mixer, out *audio.Block) {
	for h := range out.Channels {
		m.Mute(out.Samples[h])
	}

	global := s.Volume()
	cats := *s.categories.Load()

	s.channelsMu.Lock()
	defer s.channelsMu.Unlock()

	for i, ch := range s.channels {
		req := &s.requests[i]
		if !ch.Block(m, req) {
			continue
		}

		vol := global
		if v, ok := cats[req.Category]; ok {
			vol *= v
		}
		Route(m, &s.cfg.CM, vol, req, out)
	}
}

func (s *System) smooth(d time.Duration) {
	prev := s.duration.Load()
	if prev == 0 {
		s.duration.Store(int64(d))
		return
	}
	s.duration.Store((prev*9 + int64(d)) / 10)
}

// Close stops the mixer, releases the channels and destroys the driver.
// It is safe to call more than once.
func (s *System) Close() error {
	s.life.Lock()
	defer s.life.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.halt()
	s.pending = nil

	s.channelsMu.Lock()
	s.channels = nil
	s.channelsMu.Unlock()

	logging.Logger().Info("audio system closed")
	return nil
}

// Suspend stops the mixer and destroys the driver. Channels keep their
// state and keep accepting control calls. A frame mixed but not yet
// submitted is held and submitted first on Resume.
func (s *System) Suspend() error {
	s.life.Lock()
	defer s.life.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.suspended {
		return nil
	}
	s.halt()
	s.suspended = true

	logging.Logger().Info("audio system suspended")
	return nil
}

// Resume creates a fresh driver from the configured factory and restarts
// the mixer.
func (s *System) Resume() error {
	s.life.Lock()
	defer s.life.Unlock()

	if s.closed {
		return ErrClosed
	}
	if !s.suspended {
		return nil
	}
	if err := s.openDriver(); err != nil {
		return err
	}
	s.suspended = false
	s.start()

	logging.Logger().Info("audio system resumed")
	return nil
}

// Channel returns channel id, or nil when id is out of range or the system
// is closed.
func (s *System) Channel(id int) *Channel {
	s.channelsMu.Lock()
	defer s.channelsMu.Unlock()

	if id < 0 || id >= len(s.channels) {
		return nil
	}
	return s.channels[id]
}

func (s *System) ChannelCount() int {
	s.channelsMu.Lock()
	defer s.channelsMu.Unlock()

	return len(s.channels)
}

// Config returns the normalized configuration.
func (s *System) Config() Config { return s.cfg }

func (s *System) Volume() float32 { return math.Float32frombits(s.volume.Load()) }

// SetVolume sets the global gain, clamped to [0, 1].
func (s *System) SetVolume(v float32) {
	s.volume.Store(math.Float32bits(sample.Clamp01(v)))
}

// CategoryVolume returns the gain of category, 1 when unset.
func (s *System) CategoryVolume(category string) float32 {
	if v, ok := (*s.categories.Load())[category]; ok {
		return v
	}
	return 1
}

// SetCategoryVolume sets the gain applied to every channel playing a sound
// of category, clamped to [0, 1].
func (s *System) SetCategoryVolume(category string, v float32) {
	s.catMu.Lock()
	defer s.catMu.Unlock()

	cur := *s.categories.Load()
	next := make(map[string]float32, len(cur)+1)
	for k, val := range cur {
		next[k] = val
	}
	next[category] = sample.Clamp01(v)
	s.categories.Store(&next)
}

// Time returns the mixer clock: the duration of audio mixed so far.
func (s *System) Time() time.Duration {
	samples := s.clock.Load()
	return time.Duration(samples) * time.Second / time.Duration(s.cfg.Driver.SampleRate)
}

// MixerDuration returns the smoothed time one mixer iteration spends
// producing a frame, excluding the driver.
func (s *System) MixerDuration() time.Duration {
	return time.Duration(s.duration.Load())
}

// SubmitErrors counts frames the driver rejected.
func (s *System) SubmitErrors() uint64 { return s.submitErrors.Load() }
