// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audmix/internal/sample"
)

// mp3Reader is the part of gomp3.Decoder used here.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// Mp3Decoder decodes MPEG-1/2 layer III streams. go-mp3 always produces
// 16-bit interleaved stereo.
type Mp3Decoder struct{}

func (Mp3Decoder) Decode(r io.Reader) (*PCM, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return decodeMp3(dec)
}

func decodeMp3(dec mp3Reader) (*PCM, error) {
	const channels = 2

	buf := make([]byte, 8192)
	var interleaved []float32
	var carry []byte

	for {
		n, err := dec.Read(buf)
		data := buf[:n]
		if len(carry) > 0 {
			data = append(carry, data...)
			carry = nil
		}

		whole := len(data) &^ 1
		for i := 0; i < whole; i += 2 {
			v := int16(binary.LittleEndian.Uint16(data[i : i+2]))
			interleaved = append(interleaved, sample.FromInt(int(v), 16))
		}
		if whole < len(data) {
			carry = append([]byte(nil), data[whole:]...)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}

	return FromInterleaved(dec.SampleRate(), channels, interleaved)
}
