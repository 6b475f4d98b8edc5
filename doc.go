// SPDX-License-Identifier: EPL-2.0

// Package audmix is a real-time audio mixer for games and interactive
// applications.
//
// A mixer goroutine pulls fixed-size frames from a set of virtual channels,
// each playing one audio.Buffer, routes them through a combine matrix onto
// the hardware channels and hands the result to a Driver. Buffers are pulled
// in planar float32 blocks from per-playback cursors, so one decoded sound
// can play on many channels at once.
//
// # Packages
//
//   - audio: blocks, the Mixer primitive set, and the Buffer, Cursor, Filter
//     and Driver contracts
//   - sound: decoded PCM sounds (WAV, AIFF, MP3, Ogg Vorbis) as Buffers
//   - filter: gain, low-pass and high-pass filters
//   - engine: Channel, System and Player
//   - graph: node graphs evaluated per block, played as Buffers
//   - graph/script: graph nodes written in Lua
//   - driver/speaker, driver/wavfile, driver/null: output drivers
//
// # Quick Start
//
//	pcm, _ := sound.Open("laser.ogg", sound.DefaultRegistry())
//	laser := sound.New(pcm, sound.Options{Category: "sfx"})
//
//	cfg := engine.DefaultConfig()
//	cfg.NewDriver = func() audio.Driver { return speaker.New(speaker.Options{}) }
//	sys, _ := engine.New(cfg)
//	defer sys.Close()
//
//	sys.SetCategoryVolume("sfx", 0.8)
//	h, _ := engine.NewPlayer(sys).Play(laser, engine.PlayOptions{})
//	h.FadeOff(200 * time.Millisecond)
//
// # Graphs
//
// Procedural sound is built from graph nodes and played like any other
// buffer:
//
//	g := graph.New()
//	tone, vol, mul, out := graph.NewSine(), graph.NewParameter("volume", 1), graph.NewMultiply(), graph.NewOutput()
//	g.Add(tone, vol, mul, out)
//	g.Connect(tone.Out, mul.A)
//	g.Connect(vol.Out, mul.B)
//	g.Connect(mul.Out, out.In)
//	buf, _ := graph.NewBuffer(g, out, graph.BufferOptions{})
//
//	h, _ := player.Play(buf, engine.PlayOptions{})
//	h.SetParameter("volume", 0.25)
//
// # Offline Rendering
//
// Bounce renders a buffer to a WAV file without a device.
//
//	f, _ := os.Create("out.wav")
//	defer f.Close()
//	audmix.Bounce(f, buf, audmix.BounceOptions{MaxDuration: 2 * time.Second})
//
// Logging is silent unless a logger is installed with SetLogger.
package audmix
