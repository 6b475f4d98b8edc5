// SPDX-License-Identifier: EPL-2.0

package audio

// Mixer is the vectorized block primitive every stage mixes through.
//
// Slice lengths are the sample counts and must be multiples of 4; src must be
// at least as long as dst unless stated otherwise. Violations are contract
// errors and are not checked.
type Mixer interface {
	// MulConst scales buf in place.
	MulConst(buf []float32, factor float32)
	// MulConstTo writes src*factor into dst.
	MulConstTo(dst, src []float32, factor float32)
	// AddMulConst accumulates src*factor into dst.
	AddMulConst(dst, src []float32, factor float32)
	// Stretch resamples all of src into all of dst by nearest neighbour while
	// applying factor. len(src) and len(dst) may differ.
	Stretch(dst, src []float32, factor float32)
	// Mute zero-fills buf.
	Mute(buf []float32)
	// Synchronize flushes backend state after a group of operations.
	Synchronize()
}

// DefaultMixer is the portable Mixer implementation.
type DefaultMixer struct{}

var _ Mixer = DefaultMixer{}

func (DefaultMixer) MulConst(buf []float32, factor float32) {
	n := len(buf) &^ 3
	for i := 0; i < n; i += 4 {
		s := buf[i : i+4 : i+4]
		s[0] *= factor
		s[1] *= factor
		s[2] *= factor
		s[3] *= factor
	}
	for i := n; i < len(buf); i++ {
		buf[i] *= factor
	}
}

func (DefaultMixer) MulConstTo(dst, src []float32, factor float32) {
	src = src[:len(dst)]
	n := len(dst) &^ 3
	for i := 0; i < n; i += 4 {
		d := dst[i : i+4 : i+4]
		s := src[i : i+4 : i+4]
		d[0] = s[0] * factor
		d[1] = s[1] * factor
		d[2] = s[2] * factor
		d[3] = s[3] * factor
	}
	for i := n; i < len(dst); i++ {
		dst[i] = src[i] * factor
	}
}

func (DefaultMixer) AddMulConst(dst, src []float32, factor float32) {
	src = src[:len(dst)]
	n := len(dst) &^ 3
	for i := 0; i < n; i += 4 {
		d := dst[i : i+4 : i+4]
		s := src[i : i+4 : i+4]
		d[0] += s[0] * factor
		d[1] += s[1] * factor
		d[2] += s[2] * factor
		d[3] += s[3] * factor
	}
	for i := n; i < len(dst); i++ {
		dst[i] += src[i] * factor
	}
}

// Stretch steps through src in 16.16 fixed point so long buffers do not
// accumulate float drift. The last index read is always below len(src).
func (DefaultMixer) Stretch(dst, src []float32, factor float32) {
	if len(dst) == 0 || len(src) == 0 {
		return
	}
	step := (uint64(len(src)) << 16) / uint64(len(dst))
	var pos uint64
	for i := range dst {
		dst[i] = src[pos>>16] * factor
		pos += step
	}
}

func (DefaultMixer) Mute(buf []float32) {
	clear(buf)
}

func (DefaultMixer) Synchronize() {}
