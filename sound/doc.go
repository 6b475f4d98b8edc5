// SPDX-License-Identifier: EPL-2.0

// Package sound provides in-memory PCM sounds that the engine can play.
//
// A Sound is an audio.Buffer over planar PCM. Each playback gets its own
// cursor, so one Sound may play on several channels at once:
//
//	pcm, _ := sound.Open("explosion.ogg", sound.DefaultRegistry())
//	s := sound.New(pcm, sound.Options{GainDB: -3, Category: "sfx"})
//	ch.Play(s, engine.PlayOptions{Category: s.Category()})
//
// # Decoding
//
// Decoders turn a byte stream into PCM. The default registry knows:
//   - "wav" via github.com/go-audio/wav
//   - "aiff"/"aif" via github.com/go-audio/aiff
//   - "mp3" via github.com/hajimehoshi/go-mp3
//   - "ogg" via github.com/jfreymuth/oggvorbis
//
// # Conversion
//
// PCM can be resampled with cubic interpolation and downmixed to mono
// before it is wrapped, so the mixer runs without rate conversion:
//
//	pcm = pcm.Resample(48000).Downmix()
package sound
