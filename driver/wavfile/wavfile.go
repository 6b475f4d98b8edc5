// SPDX-License-Identifier: EPL-2.0

// Package wavfile provides a driver that records the mixed output to an
// integer PCM WAV stream instead of a device. Wait never blocks, so a
// System using it renders as fast as the mixer runs.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/sample"
)

// pcmFormat is the WAVE_FORMAT_PCM tag.
const pcmFormat = 1

var ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")

// Driver encodes frames to w. The header is finalized by Destroy, which
// needs w to seek back to the start.
type Driver struct {
	w io.WriteSeeker

	mu     sync.Mutex
	enc    *wav.Encoder
	desc   audio.DriverDesc
	buf    goaudio.IntBuffer
	frames int64
}

var _ audio.Driver = (*Driver)(nil)

func New(w io.WriteSeeker) *Driver {
	return &Driver{w: w}
}

func (d *Driver) Create(desc audio.DriverDesc) (audio.Mixer, error) {
	switch desc.BitsPerSample {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, desc.BitsPerSample)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.desc = desc
	d.enc = wav.NewEncoder(d.w, desc.SampleRate, desc.BitsPerSample, desc.HWChannels, pcmFormat)
	d.buf = goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: desc.HWChannels, SampleRate: desc.SampleRate},
		SourceBitDepth: desc.BitsPerSample,
	}
	return audio.DefaultMixer{}, nil
}

func (d *Driver) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.enc == nil {
		return nil
	}
	err := d.enc.Close()
	d.enc = nil
	if err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

func (*Driver) Wait() {}

// Submit interleaves the frame into integer samples. Channels missing from
// the frame are written as silence.
func (d *Driver) Submit(frame *audio.Block) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.enc == nil {
		return audio.ErrDriverClosed
	}

	hw, n := d.desc.HWChannels, frame.SamplesCount
	if cap(d.buf.Data) < hw*n {
		d.buf.Data = make([]int, hw*n)
	}
	d.buf.Data = d.buf.Data[:hw*n]
	for c := range hw {
		src := frame.Channel(c)
		for i := range n {
			v := 0
			if src != nil {
				v = sample.ToInt(src[i], d.desc.BitsPerSample)
			}
			d.buf.Data[i*hw+c] = v
		}
	}

	if err := d.enc.Write(&d.buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	d.frames++
	return nil
}

// Frames returns the number of frames written.
func (d *Driver) Frames() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.frames
}
