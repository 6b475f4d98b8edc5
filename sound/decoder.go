// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Decoder turns an encoded stream into PCM.
type Decoder interface {
	Decode(r io.Reader) (*PCM, error)
}

// Registry maps format keys (file extensions without the dot) to decoders.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("wav", WavDecoder{})
	r.Register("aiff", AiffDecoder{})
	r.Register("aif", AiffDecoder{})
	r.Register("mp3", Mp3Decoder{})
	r.Register("ogg", VorbisDecoder{})
	return r
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Decode decodes r with the decoder registered for format.
func (r *Registry) Decode(format string, rd io.Reader) (*PCM, error) {
	d, ok := r.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	pcm, err := d.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	if pcm.Frames() == 0 {
		return nil, ErrEmptySound
	}
	return pcm, nil
}

// Open decodes the file at path, picking the decoder by extension.
func Open(path string, reg *Registry) (*PCM, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	return reg.Decode(ext, f)
}

// readSeeker returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek. The go-audio decoders require seeking.
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}

// maxEmptyReads bounds how many consecutive empty reads are tolerated
// before a stream without io.EOF is considered finished.
const maxEmptyReads = 16

// drainInterleaved reads interleaved floats from read until io.EOF.
func drainInterleaved(read func([]float32) (int, error), chunk int) ([]float32, error) {
	var all []float32
	buf := make([]float32, chunk)
	empty := 0
	for empty < maxEmptyReads {
		n, err := read(buf)
		if n > 0 {
			all = append(all, buf[:n]...)
			empty = 0
		} else {
			empty++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}
	return all, nil
}
