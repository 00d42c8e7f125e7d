// Package scripting runs user-supplied Lua hooks on atlas events.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/atlasgo/server/internal/core/event"
)

// Engine wraps a single gopher-lua VM for event hooks. Single-goroutine
// access only: hooks fire from event dispatch on the tick loop.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all .lua files from hooksDir.
// A missing directory yields an engine with no hooks.
func NewEngine(hooksDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(hooksDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load hooks: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua hook file", zap.String("file", path))
	}
	return nil
}

// Bind subscribes the hook functions to bus events. Dispatch runs on the
// tick goroutine, matching the engine's single-goroutine contract.
func (e *Engine) Bind(bus *event.Bus) {
	event.Subscribe(bus, func(ev event.PlayerJoined) {
		e.call("on_player_join", lua.LString(ev.PlayerID.String()), lua.LString(ev.Name))
	})
	event.Subscribe(bus, func(ev event.PlayerLeft) {
		e.call("on_player_leave", lua.LString(ev.PlayerID.String()))
	})
	event.Subscribe(bus, func(ev event.WorldRegistered) {
		e.call("on_world_registered", lua.LString(ev.WorldID.String()))
	})
	event.Subscribe(bus, func(ev event.MapRegistered) {
		e.call("on_map_registered", lua.LString(ev.MapID))
	})
}

// call invokes a global hook function if the scripts defined it. Hook
// errors are reported and swallowed; a broken hook never breaks the tick.
func (e *Engine) call(name string, args ...lua.LValue) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua hook error", zap.String("hook", name), zap.Error(err))
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
