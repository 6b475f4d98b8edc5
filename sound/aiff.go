// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"io"

	"github.com/go-audio/aiff"
)

// AiffDecoder decodes integer PCM AIFF files.
type AiffDecoder struct{}

func (AiffDecoder) Decode(r io.Reader) (*PCM, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	return decodeInts(dec, int(dec.BitDepth), false)
}
