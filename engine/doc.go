// SPDX-License-Identifier: EPL-2.0

// Package engine runs the real-time mixer.
//
// A System owns a fixed set of virtual Channels and one mixer goroutine.
// Every hardware frame period the goroutine pulls one frame from each
// Channel, routes the channel outputs onto the hardware channels through the
// combine matrix, and submits the frame to the Driver:
//
//	cfg := engine.DefaultConfig()
//	cfg.NewDriver = func() audio.Driver { return null.New(null.Options{Realtime: true}) }
//	sys, err := engine.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer sys.Close()
//
//	h, err := engine.NewPlayer(sys).Play(snd, engine.PlayOptions{Repeat: true})
//
// # Threading
//
// Play, Stop, SetParameter, SetFilter, SetVolume and SetPitch may be called
// from any goroutine. They publish state that the mixer goroutine picks up
// at the start of its next pull, so changes become audible within one frame.
// Channel.Block is for the mixer goroutine only, or for offline rendering
// where the caller is the only reader.
package engine
