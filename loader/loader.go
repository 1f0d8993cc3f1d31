package loader

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/lyre/engine/world"
)

// collector accumulates Lua definitions during script execution.
type collector struct {
	game        *lua.LTable
	items       []rawDef
	monsters    []rawDef
	npcs        []rawDef
	rooms       []rawDef
	connections []*lua.LTable
	themes      []rawDef
	rewires     []rawDef
	encounters  *lua.LTable
}

// Load reads a world script, or every .lua file in a directory, and
// compiles it into world definitions. Validation warnings go to logger.
func Load(p string, logger *log.Logger) (*world.Defs, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("reading world %s: %w", p, err)
	}
	if info.IsDir() {
		return LoadFS(os.DirFS(p), ".", logger)
	}
	return LoadFS(os.DirFS(filepath.Dir(p)), filepath.Base(p), logger)
}

// LoadFS is Load over a file system. name is a .lua file or a directory.
func LoadFS(fsys fs.FS, name string, logger *log.Logger) (*world.Defs, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	files, err := luaFiles(fsys, name)
	if err != nil {
		return nil, err
	}

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range files {
		src, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		fn, err := L.Load(bytes.NewReader(src), f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	ve := &ValidationError{}
	defs, err := compile(coll, ve)
	if err != nil {
		return nil, fmt.Errorf("compiling world: %w", err)
	}
	if err := validate(defs, ve, logger); err != nil {
		return nil, err
	}
	return defs, nil
}

func luaFiles(fsys fs.FS, name string) ([]string, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading world %s: %w", name, err)
	}
	if !info.IsDir() {
		return []string{name}, nil
	}

	entries, err := fs.ReadDir(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", name, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", name)
	}
	names = sortedLuaFiles(names)
	for i, n := range names {
		names[i] = path.Join(name, n)
	}
	return names, nil
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
		"dofile", "loadfile", "load", "loadstring", "require",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// The engine owns randomness.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
