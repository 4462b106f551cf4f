// Package loader loads world content into Go structs. Worlds can be
// authored as YAML documents or as Lua scripts; either way the result is
// the same immutable types.World, validated once after loading. The Lua
// VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/slorkgame/slork/types"
	lua "github.com/yuin/gopher-lua"
)

// Load reads a world from path and validates it. A .yaml/.yml file is
// parsed as a YAML world document; a .lua file or a directory of .lua
// files is executed as the Lua authoring DSL.
//
// Validation issues are logged as warnings and the world is returned
// anyway; callers that want to reject defective content inspect
// Validate themselves.
func Load(path string) (*types.World, error) {
	world, err := Parse(path)
	if err != nil {
		return nil, err
	}

	for _, issue := range Validate(world) {
		log.Warn().Str("world", path).Msg(issue)
	}
	return world, nil
}

// Parse reads a world from path without running validation. Callers that
// want to report issues themselves pass the result to Validate.
func Parse(path string) (*types.World, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading world %s: %w", path, err)
	}
	if info.IsDir() {
		return loadLuaDir(path)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return loadYAMLFile(path)
	case ".lua":
		return loadLuaFiles(filepath.Dir(path), []string{filepath.Base(path)})
	default:
		return nil, fmt.Errorf("unsupported world format %q", filepath.Ext(path))
	}
}

// loadLuaDir executes all .lua files in dir, world.lua first and the
// rest alphabetical, and compiles the collected definitions.
func loadLuaDir(dir string) (*types.World, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	return loadLuaFiles(dir, sortedLuaFiles(luaFiles))
}

func loadLuaFiles(dir string, files []string) (*types.World, error) {
	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	world, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling world data: %w", err)
	}
	return world, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Remove math.randomseed to preserve determinism.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}

// sortedLuaFiles returns .lua files with world.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var worldFile string
	var others []string
	for _, f := range files {
		if f == "world.lua" {
			worldFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if worldFile != "" {
		return append([]string{worldFile}, others...)
	}
	return others
}
