// SPDX-License-Identifier: EPL-2.0

// Package script builds graph nodes whose processing is written in Lua.
//
// A script defines a global function
//
//	function apply(samples, channel, rate)
//
// called once per channel of every block. samples is a 1-based table of the
// channel's values; the function edits it in place and returns nothing, or
// returns a replacement table, or returns false to drop the block. The
// global table params holds the latest parameter writes by id.
//
// Only the base, table, string and math libraries are opened.
package script

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/graph"
	"github.com/ik5/audmix/internal/logging"
)

const applyFunc = "apply"

var (
	ErrCompile = errors.New("script does not compile")
	ErrNoApply = errors.New("script defines no apply function")
	ErrRuntime = errors.New("script failed")
)

// Script is a compiled Lua program. It is safe to create appliers from
// several goroutines; each applier owns its own interpreter.
type Script struct {
	name  string
	proto *lua.FunctionProto
}

// Compile parses and compiles src. name is used in error messages and as
// the name of nodes built from the script.
func Compile(name, src string) (*Script, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return &Script{name: name, proto: proto}, nil
}

func (s *Script) Name() string { return s.name }

// Node returns a Custom node running s, one interpreter per playback.
func (s *Script) Node() *graph.Custom {
	return graph.NewCustom(s.name, s.Applier)
}

// Applier starts an interpreter, runs the script body and looks up apply.
func (s *Script) Applier() (graph.Applier, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	params := L.NewTable()
	L.SetGlobal("params", params)

	L.Push(L.NewFunctionFromProto(s.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrRuntime, s.name, err)
	}

	fn, ok := L.GetGlobal(applyFunc).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoApply, s.name)
	}

	a := &applier{name: s.name, L: L, fn: fn, params: params, samples: L.NewTable()}
	runtime.AddCleanup(a, func(L *lua.LState) { L.Close() }, L)
	return a, nil
}

type applier struct {
	name    string
	L       *lua.LState
	fn      *lua.LFunction
	params  *lua.LTable
	samples *lua.LTable
	size    int
	failed  bool
}

var _ graph.ParameterApplier = (*applier)(nil)

func (a *applier) SetParameter(id string, value float32) {
	a.params.RawSetString(id, lua.LNumber(value))
}

func (a *applier) Apply(_ audio.Mixer, b *audio.Block) bool {
	for c := range b.Channels {
		ch := b.Channel(c)
		if ch == nil {
			continue
		}
		if !a.channel(ch, c, b.SampleRate) {
			return false
		}
	}
	return true
}

func (a *applier) channel(ch []float32, c, rate int) bool {
	for i, v := range ch {
		a.samples.RawSetInt(i+1, lua.LNumber(v))
	}
	for i := len(ch); i < a.size; i++ {
		a.samples.RawSetInt(i+1, lua.LNil)
	}
	a.size = len(ch)

	err := a.L.CallByParam(lua.P{Fn: a.fn, NRet: 1, Protect: true},
		a.samples, lua.LNumber(c), lua.LNumber(rate))
	if err != nil {
		if !a.failed {
			a.failed = true
			logging.Logger().Warn("script apply failed", "script", a.name, "error", err)
		}
		return false
	}
	ret := a.L.Get(-1)
	a.L.Pop(1)

	tbl := a.samples
	switch v := ret.(type) {
	case *lua.LTable:
		tbl = v
	case lua.LBool:
		if !bool(v) {
			return false
		}
	}

	for i := range ch {
		n, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			ch[i] = 0
			continue
		}
		ch[i] = float32(n)
	}
	return true
}
