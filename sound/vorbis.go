// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// oggReader is the part of oggvorbis.Reader used here. Read returns the
// number of interleaved values written.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// VorbisDecoder decodes Ogg Vorbis streams.
type VorbisDecoder struct{}

func (VorbisDecoder) Decode(r io.Reader) (*PCM, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return decodeVorbis(dec)
}

func decodeVorbis(dec oggReader) (*PCM, error) {
	channels := dec.Channels()
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	chunk := 4096 - 4096%channels
	if chunk == 0 {
		chunk = channels
	}

	interleaved, err := drainInterleaved(dec.Read, chunk)
	if err != nil {
		return nil, err
	}

	return FromInterleaved(dec.SampleRate(), channels, interleaved)
}
