// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"testing"
)

func ramp(n int) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(math.Sin(float64(i)*0.37)) * 0.8
	}
	return buf
}

func TestDefaultMixer_MulConstIdentity(t *testing.T) {
	t.Parallel()

	m := DefaultMixer{}
	for _, n := range []int{4, 8, 64, 1024} {
		buf := ramp(n)
		want := append([]float32(nil), buf...)

		m.MulConst(buf, 1.0)

		for i := range buf {
			if math.Float32bits(buf[i]) != math.Float32bits(want[i]) {
				t.Fatalf("n=%d: buf[%d] = %v, want %v", n, i, buf[i], want[i])
			}
		}
	}
}

func TestDefaultMixer_MulConstTo(t *testing.T) {
	t.Parallel()

	m := DefaultMixer{}
	src := ramp(16)
	dst := make([]float32, 16)

	m.MulConstTo(dst, src, 0.5)

	for i := range dst {
		if dst[i] != src[i]*0.5 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], src[i]*0.5)
		}
	}
}

func TestDefaultMixer_AddMulConstAdditivity(t *testing.T) {
	t.Parallel()

	m := DefaultMixer{}
	dst := ramp(256)
	orig := append([]float32(nil), dst...)
	src := make([]float32, 256)
	for i := range src {
		src[i] = float32(i%7) * 0.1
	}

	m.AddMulConst(dst, src, 0.75)
	m.AddMulConst(dst, src, -0.75)

	for i := range dst {
		if math.Abs(float64(dst[i]-orig[i])) > 1e-6 {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], orig[i])
		}
	}
}

func TestDefaultMixer_Mute(t *testing.T) {
	t.Parallel()

	buf := ramp(32)
	DefaultMixer{}.Mute(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v after Mute, want 0", i, v)
		}
	}
}

func TestDefaultMixer_StretchBounds(t *testing.T) {
	t.Parallel()

	m := DefaultMixer{}
	for _, srcLen := range []int{4, 8, 12, 100 * 4, 1024} {
		for _, dstLen := range []int{4, 8, 16, 44, 1024, 4096} {
			// Guard cells on both sides catch reads and writes past the end.
			backing := make([]float32, srcLen+4)
			for i := range backing {
				backing[i] = float32(i)
			}
			backing[srcLen] = float32(math.NaN())
			src := backing[:srcLen]

			out := make([]float32, dstLen+4)
			for i := range out {
				out[i] = -1
			}
			dst := out[:dstLen]

			m.Stretch(dst, src, 1)

			for i, v := range dst {
				if v != v {
					t.Fatalf("src=%d dst=%d: dst[%d] read past src end", srcLen, dstLen, i)
				}
				if v < 0 || v > float32(srcLen-1) {
					t.Fatalf("src=%d dst=%d: dst[%d] = %v out of source range", srcLen, dstLen, i, v)
				}
			}
			for i := dstLen; i < len(out); i++ {
				if out[i] != -1 {
					t.Fatalf("src=%d dst=%d: wrote past dst end at %d", srcLen, dstLen, i)
				}
			}
		}
	}
}

func TestDefaultMixer_StretchGainAndRatio(t *testing.T) {
	t.Parallel()

	src := []float32{1, 2, 3, 4}
	dst := make([]float32, 8)

	DefaultMixer{}.Stretch(dst, src, 2)

	want := []float32{2, 2, 4, 4, 6, 6, 8, 8}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func BenchmarkDefaultMixer_AddMulConst(b *testing.B) {
	m := DefaultMixer{}
	dst := make([]float32, 1024)
	src := ramp(1024)

	b.ReportAllocs()
	for range b.N {
		m.AddMulConst(dst, src, 0.5)
	}
}
