// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audmix/internal/sample"
)

// intPCMReader is the part of the go-audio decoders used here, split out so
// tests can feed synthetic buffers.
type intPCMReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// WavDecoder decodes integer PCM WAV files (8, 16, 24 or 32 bit).
type WavDecoder struct{}

func (WavDecoder) Decode(r io.Reader) (*PCM, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedLayout, dec.WavAudioFormat)
	}
	return decodeInts(dec, int(dec.BitDepth), true)
}

// decodeInts drains an integer PCM reader and normalizes it by bitDepth.
// unsigned8 marks 8-bit data stored offset by 128, as WAV does.
func decodeInts(dec intPCMReader, bitDepth int, unsigned8 bool) (*PCM, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBits, bitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrUnsupportedLayout
	}

	buf := &goaudio.IntBuffer{
		Data:   make([]int, 4096*format.NumChannels),
		Format: format,
	}

	var interleaved []float32
	for {
		n, err := dec.PCMBuffer(buf)
		for _, v := range buf.Data[:n] {
			interleaved = append(interleaved, sample.FromInt(v, bitDepth))
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	if bitDepth == 8 && unsigned8 {
		for i := range interleaved {
			interleaved[i] -= 1
		}
	}

	return FromInterleaved(format.SampleRate, format.NumChannels, interleaved)
}
