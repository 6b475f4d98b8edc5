// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/sample"
)

// PCM is decoded audio stored as one float32 slice per channel, values in
// [-1, 1].
type PCM struct {
	SampleRate int
	Data       [][]float32
}

// NewPCM validates planar data and wraps it without copying.
func NewPCM(sampleRate int, data [][]float32) (*PCM, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if len(data) == 0 || len(data) > audio.MaxChannel {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, len(data))
	}
	for _, ch := range data[1:] {
		if len(ch) != len(data[0]) {
			return nil, ErrMismatchedChannels
		}
	}
	return &PCM{SampleRate: sampleRate, Data: data}, nil
}

// FromInterleaved splits interleaved samples into planar channels. A
// trailing partial frame is dropped.
func FromInterleaved(sampleRate, channels int, samples []float32) (*PCM, error) {
	if channels <= 0 || channels > audio.MaxChannel {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	frames := len(samples) / channels
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}

	// Unrolled for the common layouts.
	switch channels {
	case 1:
		copy(data[0], samples[:frames])
	case 2:
		l, r := data[0], data[1]
		for f := range frames {
			idx := f << 1
			l[f] = samples[idx]
			r[f] = samples[idx+1]
		}
	default:
		for f := range frames {
			base := f * channels
			for c := range channels {
				data[c][f] = samples[base+c]
			}
		}
	}

	return NewPCM(sampleRate, data)
}

// Channels returns the channel count.
func (p *PCM) Channels() int { return len(p.Data) }

// Frames returns the sample count per channel.
func (p *PCM) Frames() int {
	if len(p.Data) == 0 {
		return 0
	}
	return len(p.Data[0])
}

// Downmix averages all channels into one. Mono input is returned as is.
func (p *PCM) Downmix() *PCM {
	if len(p.Data) <= 1 {
		return p
	}

	frames := p.Frames()
	out := make([]float32, frames)
	inv := float32(1.0) / float32(len(p.Data))

	switch len(p.Data) {
	case 2:
		l, r := p.Data[0], p.Data[1]
		for f := range frames {
			out[f] = (l[f] + r[f]) * 0.5
		}
	default:
		for _, ch := range p.Data {
			for f, v := range ch {
				out[f] += v
			}
		}
		for f := range out {
			out[f] *= inv
		}
	}

	return &PCM{SampleRate: p.SampleRate, Data: [][]float32{out}}
}

// Resample converts p to rate with cubic interpolation. Edge samples are
// repeated to feed the interpolator at the stream boundaries. When
// downsampling a one-pole low-pass runs ahead of interpolation to reduce
// aliasing.
func (p *PCM) Resample(rate int) *PCM {
	if rate <= 0 || rate == p.SampleRate || p.Frames() == 0 {
		return p
	}

	ratio := float64(p.SampleRate) / float64(rate)
	frames := p.Frames()
	outFrames := int(float64(frames) / ratio)
	if outFrames == 0 {
		outFrames = 1
	}

	out := &PCM{SampleRate: rate, Data: make([][]float32, len(p.Data))}
	for c, src := range p.Data {
		if ratio > 1.0 {
			src = lowPass(src, 0.5)
		}

		at := func(i int) float32 {
			if i < 0 {
				return src[0]
			}
			if i >= frames {
				return src[frames-1]
			}
			return src[i]
		}

		dst := make([]float32, outFrames)
		for i := range dst {
			pos := float64(i) * ratio
			idx := int(pos)
			x := float32(pos - float64(idx))
			dst[i] = sample.Cubic(at(idx-1), at(idx), at(idx+1), at(idx+2), x)
		}
		out.Data[c] = dst
	}

	return out
}

func lowPass(src []float32, alpha float32) []float32 {
	out := make([]float32, len(src))
	if len(src) == 0 {
		return out
	}
	y := src[0]
	for i, x := range src {
		y = alpha*x + (1-alpha)*y
		out[i] = y
	}
	return out
}
