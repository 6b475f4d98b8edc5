// SPDX-License-Identifier: EPL-2.0

package sound

import "errors"

var (
	ErrUnknownFormat      = errors.New("unknown sound format")
	ErrNotWavFile         = errors.New("not a WAV file")
	ErrNotAiffFile        = errors.New("not an AIFF file")
	ErrUnsupportedLayout  = errors.New("unsupported PCM layout")
	ErrUnsupportedBits    = errors.New("unsupported bit depth")
	ErrEmptySound         = errors.New("sound has no samples")
	ErrInvalidChannels    = errors.New("channel count out of range")
	ErrInvalidSampleRate  = errors.New("sample rate must be positive")
	ErrMismatchedChannels = errors.New("channels have different lengths")
)
