// Lyre runs the Labyrinth of Lyre text adventure.
// Usage: lyre [--version] [--plain] [--script <file>] [--seed <n>] [--archetype <name>] [--env <file>] [--world <file.lua>]
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/nathoo/lyre/cli"
	"github.com/nathoo/lyre/config"
	"github.com/nathoo/lyre/data"
	"github.com/nathoo/lyre/engine"
	"github.com/nathoo/lyre/engine/save"
	"github.com/nathoo/lyre/engine/world"
	"github.com/nathoo/lyre/loader"
	"github.com/nathoo/lyre/tui"
)

const usage = "Usage: lyre [--version] [--plain] [--script <file>] [--seed <n>] [--archetype <name>] [--env <file>] [--world <file.lua>]"

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		plain      bool
		scriptFile string
		envFile    = ".env"
		worldFile  string
		seed       string
		archetype  string
		hasArch    bool
	)

	args := os.Args[1:]
	value := func(i int, flag string) string {
		if i+1 >= len(args) {
			fatalf("%s requires a value\n%s\n", flag, usage)
		}
		return args[i+1]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("lyre %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--script":
			scriptFile = value(i, args[i])
			i++
		case "--seed":
			seed = value(i, args[i])
			i++
		case "--archetype":
			archetype, hasArch = value(i, args[i]), true
			i++
		case "--env":
			envFile = value(i, args[i])
			i++
		case "--world":
			worldFile = value(i, args[i])
			i++
		default:
			fatalf("unknown argument %q\n%s\n", args[i], usage)
		}
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		fatalf("Error reading configuration: %v\n", err)
	}
	if seed != "" {
		n, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			fatalf("--seed: %v\n", err)
		}
		cfg.Seed = n
	}
	if hasArch {
		cfg.Archetype = archetype
	}
	cfg.Plain = cfg.Plain || plain

	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatalf("Error opening log file: %v\n", err)
		}
		defer f.Close()
		logger = log.New(f, "lyre: ", log.LstdFlags)
	}

	defs, err := loadWorld(worldFile, logger)
	if err != nil {
		fatalf("Error loading world: %v\n", err)
	}

	g, err := engine.New(defs, engine.Options{
		Logger:          logger,
		Seed:            cfg.Seed,
		EncounterChance: cfg.EncounterChance,
		Archetype:       cfg.Archetype,
	})
	if err != nil {
		fatalf("Error starting game: %v\n", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		fatalf("Error opening save store: %v\n", err)
	}
	defer store.Close()

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fatalf("Error opening script: %v\n", err)
		}
		defer f.Close()
		c := cli.New(g, store)
		c.In = f
		c.EchoInput = true
		c.Run(ctx)
		return
	}

	// Use plain CLI if asked for or stdout is not a terminal.
	if cfg.Plain || !isTerminal() {
		cli.New(g, store).Run(ctx)
		return
	}

	if err := tui.Run(g, store); err != nil {
		fatalf("Error: %v\n", err)
	}
}

func loadWorld(path string, logger *log.Logger) (*world.Defs, error) {
	if path == "" {
		return loader.LoadFS(data.FS, data.Name, logger)
	}
	return loader.Load(path, logger)
}

func openStore(ctx context.Context, cfg config.Config) (save.Store, error) {
	if cfg.SaveBackend == config.BackendSQLite {
		if err := os.MkdirAll(cfg.SaveDir, 0o755); err != nil {
			return nil, err
		}
		return save.OpenSQLite(ctx, cfg.SaveDSN)
	}
	return save.NewFileStore(cfg.SaveDir), nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
