// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"

	"github.com/ik5/audmix/audio"
)

// RecordingDriver keeps a copy of every submitted frame. When Gate is set
// Wait blocks until Release or Destroy is called, letting tests step the
// mixer one frame at a time.
type RecordingDriver struct {
	Gate      bool
	CreateErr error
	SubmitErr error

	mu        sync.Mutex
	desc      audio.DriverDesc
	frames    [][][]float32
	created   int
	destroyed int
	notify    chan struct{}
	release   chan struct{}
	closed    chan struct{}
}

var _ audio.Driver = (*RecordingDriver)(nil)

func NewRecordingDriver() *RecordingDriver {
	return &RecordingDriver{
		notify:  make(chan struct{}, 1),
		release: make(chan struct{}, 64),
		closed:  make(chan struct{}),
	}
}

func (d *RecordingDriver) Create(desc audio.DriverDesc) (audio.Mixer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.CreateErr != nil {
		return nil, d.CreateErr
	}
	d.desc = desc
	d.created++
	select {
	case <-d.closed:
		d.closed = make(chan struct{})
	default:
	}
	return audio.DefaultMixer{}, nil
}

func (d *RecordingDriver) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.destroyed++
	select {
	case <-d.closed:
	default:
		close(d.closed)
	}
	return nil
}

func (d *RecordingDriver) Wait() {
	if !d.Gate {
		return
	}

	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()

	select {
	case <-d.release:
	case <-closed:
	}
}

// Release lets n more frames through Wait.
func (d *RecordingDriver) Release(n int) {
	for range n {
		d.release <- struct{}{}
	}
}

func (d *RecordingDriver) Submit(b *audio.Block) error {
	frame := make([][]float32, b.Channels)
	for c := range b.Channels {
		frame[c] = append([]float32(nil), b.Samples[c][:b.SamplesCount]...)
	}

	d.mu.Lock()
	d.frames = append(d.frames, frame)
	err := d.SubmitErr
	d.mu.Unlock()

	select {
	case d.notify <- struct{}{}:
	default:
	}
	return err
}

// Submitted is signalled after each Submit. Signals coalesce.
func (d *RecordingDriver) Submitted() <-chan struct{} { return d.notify }

// Frames returns copies of every frame submitted so far.
func (d *RecordingDriver) Frames() [][][]float32 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([][][]float32(nil), d.frames...)
}

func (d *RecordingDriver) Desc() audio.DriverDesc {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.desc
}

func (d *RecordingDriver) Created() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.created
}

func (d *RecordingDriver) Destroyed() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.destroyed
}
