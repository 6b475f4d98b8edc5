// SPDX-License-Identifier: EPL-2.0

package speaker

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/spsc"
)

const bytesPerSample = 4

// stream carries interleaved float32 LE frames from the mixer goroutine to
// the device callback. The mixer side calls wait and submit, the device
// side calls Read.
type stream struct {
	hw         int
	frameBytes int
	ring       *spsc.Ring
	scratch    []byte

	space chan struct{}
	done  chan struct{}
	open  atomic.Bool

	underruns atomic.Int64
	dropped   atomic.Int64
}

func newStream(hw, frameSamples, queueFrames int) *stream {
	frameBytes := hw * frameSamples * bytesPerSample
	s := &stream{
		hw:         hw,
		frameBytes: frameBytes,
		ring:       spsc.New(frameBytes * queueFrames),
		scratch:    make([]byte, frameBytes),
		space:      make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	s.open.Store(true)
	return s
}

// Read serves buffered bytes and pads with silence so the device never
// starves. It always fills p.
func (s *stream) Read(p []byte) (int, error) {
	n := s.ring.Read(p)
	if n < len(p) {
		clear(p[n:])
		if s.open.Load() {
			s.underruns.Add(1)
		}
	}
	select {
	case s.space <- struct{}{}:
	default:
	}
	return len(p), nil
}

func (s *stream) wait() {
	for s.ring.Free() < s.frameBytes {
		select {
		case <-s.space:
		case <-s.done:
			return
		}
	}
}

func (s *stream) submit(frame *audio.Block) error {
	if !s.open.Load() {
		return audio.ErrDriverClosed
	}

	n := frame.SamplesCount
	need := n * s.hw * bytesPerSample
	if cap(s.scratch) < need {
		s.scratch = make([]byte, need)
	}
	buf := s.scratch[:need]
	for c := range s.hw {
		src := frame.Channel(c)
		for i := range n {
			var v float32
			if src != nil {
				v = src[i]
			}
			off := (i*s.hw + c) * bytesPerSample
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		}
	}

	if w := s.ring.Write(buf); w < need {
		s.dropped.Add(int64(need - w))
	}
	return nil
}

func (s *stream) close() {
	if s.open.CompareAndSwap(true, false) {
		close(s.done)
	}
}
