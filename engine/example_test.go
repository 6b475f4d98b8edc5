// SPDX-License-Identifier: EPL-2.0

package engine_test

import (
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/internal/audiotest"
)

// A Channel can be pulled directly for offline rendering.
func ExampleChannel() {
	ch := engine.NewChannel(0, 44100, 1024)
	buf := audiotest.NewConstantBuffer(44100, 1, 4096, 0.5)
	if err := ch.Play(buf, engine.PlayOptions{}); err != nil {
		fmt.Println(err)
		return
	}

	var m audio.DefaultMixer
	var frame audio.Block
	frames := 0
	for ch.Block(m, &frame) {
		frames++
	}
	fmt.Println(frames, ch.IsPlaying())
	// Output: 4 false
}
