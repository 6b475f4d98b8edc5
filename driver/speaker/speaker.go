// SPDX-License-Identifier: EPL-2.0

// Package speaker plays the mixed output on the default audio device
// through oto.
//
// oto allows one device context per process. The first Create fixes the
// sample rate and channel count; a later Create with a different format
// fails with ErrFormatChanged.
package speaker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/logging"
)

const defaultQueueFrames = 4

var ErrFormatChanged = errors.New("audio device already opened with another format")

type Options struct {
	// BufferSize is the device buffer hint handed to oto. Zero lets oto
	// pick.
	BufferSize time.Duration
	// QueueFrames is the number of hardware frames buffered between the
	// mixer and the device. Zero selects 4.
	QueueFrames int
}

var device struct {
	mu         sync.Mutex
	ctx        *oto.Context
	sampleRate int
	channels   int
}

func openContext(desc audio.DriverDesc, bufferSize time.Duration) (*oto.Context, error) {
	device.mu.Lock()
	defer device.mu.Unlock()

	if device.ctx != nil {
		if device.sampleRate != desc.SampleRate || device.channels != desc.HWChannels {
			return nil, fmt.Errorf("%w: open at %d Hz x %d, want %d Hz x %d", ErrFormatChanged,
				device.sampleRate, device.channels, desc.SampleRate, desc.HWChannels)
		}
		return device.ctx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   desc.SampleRate,
		ChannelCount: desc.HWChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	device.ctx = ctx
	device.sampleRate, device.channels = desc.SampleRate, desc.HWChannels
	logging.Logger().Info("audio device opened",
		"sample_rate", desc.SampleRate,
		"channels", desc.HWChannels,
	)
	return ctx, nil
}

// Driver is an audio.Driver backed by an oto player.
type Driver struct {
	opts Options

	mu     sync.Mutex
	player *oto.Player
	s      *stream
}

var _ audio.Driver = (*Driver)(nil)

func New(opts Options) *Driver {
	if opts.QueueFrames <= 0 {
		opts.QueueFrames = defaultQueueFrames
	}
	return &Driver{opts: opts}
}

func (d *Driver) Create(desc audio.DriverDesc) (audio.Mixer, error) {
	ctx, err := openContext(desc, d.opts.BufferSize)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.s = newStream(desc.HWChannels, desc.FrameSamples, d.opts.QueueFrames)
	d.player = ctx.NewPlayer(d.s)
	d.player.Play()
	return audio.DefaultMixer{}, nil
}

func (d *Driver) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.s == nil {
		return nil
	}
	d.s.close()
	logging.Logger().Debug("audio device stream closed",
		"underruns", d.s.underruns.Load(),
		"dropped_bytes", d.s.dropped.Load(),
	)
	err := d.player.Close()
	d.player, d.s = nil, nil
	if err != nil {
		return fmt.Errorf("close audio player: %w", err)
	}
	return nil
}

func (d *Driver) current() *stream {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.s
}

func (d *Driver) Wait() {
	if s := d.current(); s != nil {
		s.wait()
	}
}

func (d *Driver) Submit(frame *audio.Block) error {
	s := d.current()
	if s == nil {
		return audio.ErrDriverClosed
	}
	return s.submit(frame)
}

// Underruns returns how many device reads found less than a full request
// buffered since the last Create.
func (d *Driver) Underruns() int64 {
	if s := d.current(); s != nil {
		return s.underruns.Load()
	}
	return 0
}
