// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"
	"io"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/driver/wavfile"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/internal/logging"
)

// BounceOptions configures Bounce. Zero values select 44.1 kHz 16-bit
// stereo in 1024-sample frames through the identity combine matrix.
type BounceOptions struct {
	Driver audio.DriverDesc
	// CM overrides the combine matrix.
	CM     *[audio.MaxChannel][audio.MaxChannel]float32
	Play   engine.PlayOptions
	Filter audio.Filter
	// MaxDuration stops the render of a buffer that never ends. Zero
	// renders until the buffer ends.
	MaxDuration time.Duration
}

func (o *BounceOptions) defaults() {
	if o.Driver.SampleRate <= 0 {
		o.Driver.SampleRate = 44100
	}
	if o.Driver.BitsPerSample <= 0 {
		o.Driver.BitsPerSample = 16
	}
	if o.Driver.HWChannels <= 0 {
		o.Driver.HWChannels = 2
	}
	if o.Driver.FrameSamples <= 0 {
		o.Driver.FrameSamples = 1024
	}
	o.Driver.FrameSamples &^= 3
}

// Bounce renders buf offline through a single channel and writes the mix to
// w as a WAV file. It returns the number of hardware frames written; the
// last frame is padded with silence.
//
// Example:
//
//	f, _ := os.Create("tone.wav")
//	defer f.Close()
//	frames, err := audmix.Bounce(f, snd, audmix.BounceOptions{})
func Bounce(w io.WriteSeeker, buf audio.Buffer, opts BounceOptions) (int, error) {
	opts.defaults()
	desc := opts.Driver
	if desc.FrameSamples == 0 {
		return 0, fmt.Errorf("%w: frame samples", engine.ErrInvalidConfig)
	}

	cm := engine.IdentityMatrix()
	if opts.CM != nil {
		cm = *opts.CM
	}

	ch := engine.NewChannel(0, desc.SampleRate, desc.FrameSamples)
	if opts.Filter != nil {
		if err := ch.SetFilter(opts.Filter); err != nil {
			return 0, fmt.Errorf("bounce: %w", err)
		}
	}
	if err := ch.Play(buf, opts.Play); err != nil {
		return 0, fmt.Errorf("bounce: %w", err)
	}

	drv := wavfile.New(w)
	m, err := drv.Create(desc)
	if err != nil {
		return 0, fmt.Errorf("bounce: %w", err)
	}

	limit := -1
	if opts.MaxDuration > 0 {
		samples := int64(opts.MaxDuration) * int64(desc.SampleRate) / int64(time.Second)
		limit = int((samples + int64(desc.FrameSamples) - 1) / int64(desc.FrameSamples))
	}

	var (
		storage  audio.Storage
		out, blk audio.Block
		frames   int
	)
	storage.View(&out, desc.HWChannels, desc.FrameSamples)
	out.SampleRate = desc.SampleRate

	for limit < 0 || frames < limit {
		if !ch.Block(m, &blk) {
			break
		}
		for h := range out.Channels {
			m.Mute(out.Samples[h])
		}
		engine.Route(m, &cm, 1, &blk, &out)
		m.Synchronize()

		if err := drv.Submit(&out); err != nil {
			drv.Destroy()
			return frames, fmt.Errorf("bounce: %w", err)
		}
		frames++
	}

	if err := drv.Destroy(); err != nil {
		return frames, fmt.Errorf("bounce: %w", err)
	}
	logging.Logger().Debug("bounce finished",
		"frames", frames,
		"sample_rate", desc.SampleRate,
	)
	return frames, nil
}
