// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/driver/wavfile"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/filter"
	"github.com/ik5/audmix/graph"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/sound"
)

func bounceFile(t *testing.T, buf audio.Buffer, opts BounceOptions) (int, *sound.PCM) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bounce.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	frames, err := Bounce(f, buf, opts)
	if err != nil {
		t.Fatalf("Bounce() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	pcm, err := sound.Open(path, sound.DefaultRegistry())
	if err != nil {
		t.Fatalf("sound.Open() error = %v", err)
	}
	return frames, pcm
}

func TestBounce_Sound(t *testing.T) {
	t.Parallel()

	frames, pcm := bounceFile(t, audiotest.NewConstantBuffer(44100, 1, 4096, 0.5), BounceOptions{})
	if frames != 4 {
		t.Errorf("frames = %d, want 4", frames)
	}
	if pcm.SampleRate != 44100 || pcm.Channels() != 2 || pcm.Frames() != 4096 {
		t.Fatalf("decoded %d Hz, %d channels, %d frames", pcm.SampleRate, pcm.Channels(), pcm.Frames())
	}
	if v := pcm.Data[0][100]; math.Abs(float64(v)-0.5) > 1e-3 {
		t.Errorf("left = %v, want 0.5", v)
	}
	if v := pcm.Data[1][100]; v != 0 {
		t.Errorf("right = %v, want silence through the identity matrix", v)
	}
}

func TestBounce_PadsLastFrame(t *testing.T) {
	t.Parallel()

	frames, pcm := bounceFile(t, audiotest.NewConstantBuffer(22050, 1, 1500, 0.25), BounceOptions{
		Driver: audio.DriverDesc{SampleRate: 22050, HWChannels: 1, FrameSamples: 1024},
	})
	if frames != 2 || pcm.Frames() != 2048 {
		t.Fatalf("frames = %d, samples = %d, want 2 and 2048", frames, pcm.Frames())
	}
	if v := pcm.Data[0][2000]; v != 0 {
		t.Errorf("padding = %v, want 0", v)
	}
}

func TestBounce_MatrixAndFilter(t *testing.T) {
	t.Parallel()

	cm := engine.IdentityMatrix()
	cm[1][0] = 1
	_, pcm := bounceFile(t, audiotest.NewConstantBuffer(44100, 1, 1024, 0.5), BounceOptions{
		CM:     &cm,
		Filter: filter.Gain{DB: -6.0206},
	})
	for c := range 2 {
		if v := pcm.Data[c][10]; math.Abs(float64(v)-0.25) > 1e-3 {
			t.Errorf("channel %d = %v, want 0.25", c, v)
		}
	}
}

func TestBounce_MaxDuration(t *testing.T) {
	t.Parallel()

	g := graph.New()
	tone, out := graph.NewSine(), graph.NewOutput()
	g.Add(tone, out)
	if err := g.Connect(tone.Out, out.In); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	buf, err := graph.NewBuffer(g, out, graph.BufferOptions{})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	frames, pcm := bounceFile(t, buf, BounceOptions{MaxDuration: 100 * time.Millisecond})
	if frames != 5 {
		t.Errorf("frames = %d, want 5 for 4410 samples", frames)
	}
	if pcm.Frames() != 5*1024 {
		t.Errorf("samples = %d, want %d", pcm.Frames(), 5*1024)
	}
}

func TestBounce_Errors(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	tests := []struct {
		name string
		buf  audio.Buffer
		opts BounceOptions
		want error
	}{
		{"nil buffer", nil, BounceOptions{}, audio.ErrNilBuffer},
		{"cursor failure", &audiotest.FailingBuffer{Err: errors.New("x")}, BounceOptions{}, audio.ErrCursorUnavailable},
		{"bit depth", audiotest.NewConstantBuffer(44100, 1, 1024, 0), BounceOptions{
			Driver: audio.DriverDesc{BitsPerSample: 12},
		}, wavfile.ErrUnsupportedBitDepth},
		{"tiny frame", audiotest.NewConstantBuffer(44100, 1, 1024, 0), BounceOptions{
			Driver: audio.DriverDesc{FrameSamples: 3},
		}, engine.ErrInvalidConfig},
	}

	for _, tt := range tests {
		if _, err := Bounce(f, tt.buf, tt.opts); !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
}
