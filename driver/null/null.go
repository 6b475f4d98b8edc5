// SPDX-License-Identifier: EPL-2.0

// Package null provides a driver that discards frames. With Realtime set it
// paces the mixer at the hardware rate, which makes it a stand-in for a
// device on machines without one.
package null

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audmix/audio"
)

type Options struct {
	// Realtime makes Wait block for one frame duration per frame.
	Realtime bool
	// Capture, when set, is called with every submitted frame before it is
	// discarded. It runs on the mixer goroutine.
	Capture func(frame *audio.Block)
}

type Driver struct {
	opts Options

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
	open   bool

	frames atomic.Int64
}

var _ audio.Driver = (*Driver)(nil)

func New(opts Options) *Driver {
	return &Driver{opts: opts}
}

func (d *Driver) Create(desc audio.DriverDesc) (audio.Mixer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.done = make(chan struct{})
	d.open = true
	if d.opts.Realtime && desc.SampleRate > 0 && desc.FrameSamples > 0 {
		period := time.Duration(desc.FrameSamples) * time.Second / time.Duration(desc.SampleRate)
		d.ticker = time.NewTicker(period)
	}
	return audio.DefaultMixer{}, nil
}

func (d *Driver) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return nil
	}
	d.open = false
	if d.ticker != nil {
		d.ticker.Stop()
		d.ticker = nil
	}
	close(d.done)
	return nil
}

func (d *Driver) Wait() {
	d.mu.Lock()
	ticker, done := d.ticker, d.done
	d.mu.Unlock()

	if ticker == nil {
		return
	}
	select {
	case <-ticker.C:
	case <-done:
	}
}

func (d *Driver) Submit(frame *audio.Block) error {
	d.mu.Lock()
	open := d.open
	d.mu.Unlock()

	if !open {
		return audio.ErrDriverClosed
	}
	if d.opts.Capture != nil {
		d.opts.Capture(frame)
	}
	d.frames.Add(1)
	return nil
}

// Frames returns the number of frames accepted since New.
func (d *Driver) Frames() int64 { return d.frames.Load() }
