// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audmix/audio"

// Route adds src onto every channel of out through the combine matrix cm,
// scaled by vol. cm[h][c] is the weight of src channel c on out channel h;
// weights at or below FuzzyEpsilon are skipped.
func Route(m audio.Mixer, cm *[audio.MaxChannel][audio.MaxChannel]float32, vol float32, src, out *audio.Block) {
	n := min(src.SamplesCount, out.SamplesCount)
	for h := range out.Channels {
		dst := out.Samples[h][:n]
		for c := range src.Channels {
			in := src.Channel(c)
			if in == nil {
				continue
			}
			if w := cm[h][c] * vol; w > FuzzyEpsilon {
				m.AddMulConst(dst, in[:n], w)
			}
		}
	}
}
