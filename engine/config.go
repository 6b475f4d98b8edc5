// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/audmix/audio"
)

const (
	// OutputBlockCount is the accumulation ring length of a channel, in
	// hardware frames.
	OutputBlockCount = 4
	// PoolCapacity caps the number of hardware frames in flight.
	PoolCapacity = 4
	// ParameterQueueCapacity bounds the parameter writes carried per frame.
	ParameterQueueCapacity = 4
	// FuzzyEpsilon is the smallest combine weight that is mixed.
	FuzzyEpsilon = 1e-5
	// MaxChannels bounds Config.Channels.
	MaxChannels = 256
)

// Config configures a System.
type Config struct {
	// Channels is the number of virtual playback channels.
	Channels int
	Driver   audio.DriverDesc
	// CM[h][c] is the gain from block channel c to hardware channel h.
	CM [audio.MaxChannel][audio.MaxChannel]float32
	// NewDriver builds a driver instance. It is called again on Resume.
	NewDriver func() audio.Driver
}

// DefaultConfig returns 16 channels of 44.1 kHz stereo with 1024-sample
// frames and an identity combine matrix. NewDriver is left for the caller.
func DefaultConfig() Config {
	cfg := Config{
		Channels: 16,
		Driver: audio.DriverDesc{
			SampleRate:    44100,
			BitsPerSample: 16,
			HWChannels:    2,
			FrameSamples:  1024,
		},
	}
	cfg.CM = IdentityMatrix()
	return cfg
}

// IdentityMatrix routes block channel i to hardware channel i.
func IdentityMatrix() [audio.MaxChannel][audio.MaxChannel]float32 {
	var cm [audio.MaxChannel][audio.MaxChannel]float32
	for i := range audio.MaxChannel {
		cm[i][i] = 1
	}
	return cm
}

// normalize masks FrameSamples to a multiple of 4 and validates the rest.
func (c *Config) normalize() error {
	c.Driver.FrameSamples &^= 3

	switch {
	case c.Channels <= 0 || c.Channels > MaxChannels:
		return fmt.Errorf("%w: channels %d not in 1..%d", ErrInvalidConfig, c.Channels, MaxChannels)
	case c.Driver.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.Driver.SampleRate)
	case c.Driver.HWChannels <= 0 || c.Driver.HWChannels > audio.MaxChannel:
		return fmt.Errorf("%w: hardware channels %d not in 1..%d", ErrInvalidConfig, c.Driver.HWChannels, audio.MaxChannel)
	case c.Driver.FrameSamples <= 0:
		return fmt.Errorf("%w: frame samples %d", ErrInvalidConfig, c.Driver.FrameSamples)
	case c.NewDriver == nil:
		return fmt.Errorf("%w: no driver factory", ErrInvalidConfig)
	}

	if c.Driver.BitsPerSample == 0 {
		c.Driver.BitsPerSample = 16
	}
	return nil
}
