// Package config reads game settings from an optional .env file and the
// process environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nathoo/lyre/engine/entity"
)

// Environment keys.
const (
	KeySeed            = "LYRE_SEED"
	KeyEncounterChance = "LYRE_ENCOUNTER_CHANCE"
	KeyArchetype       = "LYRE_ARCHETYPE"
	KeySaveBackend     = "LYRE_SAVE_BACKEND"
	KeySaveDir         = "LYRE_SAVE_DIR"
	KeySaveDSN         = "LYRE_SAVE_DSN"
	KeyLogFile         = "LYRE_LOG_FILE"
	KeyPlain           = "LYRE_PLAIN"
)

var keys = []string{
	KeySeed, KeyEncounterChance, KeyArchetype, KeySaveBackend,
	KeySaveDir, KeySaveDSN, KeyLogFile, KeyPlain,
}

// Save backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultEncounterChance is used when LYRE_ENCOUNTER_CHANCE is unset.
const DefaultEncounterChance = 0.25

// Config holds everything the binary needs to start a game.
type Config struct {
	Seed            int64 // 0 picks a time-based seed
	EncounterChance float64
	Archetype       string
	SaveBackend     string
	SaveDir         string
	SaveDSN         string
	LogFile         string
	Plain           bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	dir := defaultSaveDir()
	return Config{
		EncounterChance: DefaultEncounterChance,
		SaveBackend:     BackendFile,
		SaveDir:         dir,
		SaveDSN:         filepath.Join(dir, "saves.db"),
	}
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lyre", "saves")
	}
	return filepath.Join(home, ".lyre", "saves")
}

// Load reads envFile if it exists, overlays the process environment and
// parses the result. An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	vals := map[string]string{}
	if envFile != "" {
		file, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			vals = file
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			vals[k] = v
		}
	}
	return Parse(vals)
}

// Parse builds a Config from key/value pairs. Unknown keys are ignored.
func Parse(vals map[string]string) (Config, error) {
	cfg := Default()
	get := func(k string) (string, bool) {
		v := strings.TrimSpace(vals[k])
		return v, v != ""
	}

	if v, ok := get(KeySeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s=%q: %w", KeySeed, v, err)
		}
		cfg.Seed = n
	}
	if v, ok := get(KeyEncounterChance); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s=%q: %w", KeyEncounterChance, v, err)
		}
		if f < 0 || f > 1 {
			return Config{}, fmt.Errorf("%s=%q: must be between 0 and 1", KeyEncounterChance, v)
		}
		cfg.EncounterChance = f
	}
	if v, ok := get(KeyArchetype); ok {
		if _, err := entity.NewPlayer(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", KeyArchetype, err)
		}
		cfg.Archetype = v
	}
	if v, ok := get(KeySaveBackend); ok {
		switch strings.ToLower(v) {
		case BackendFile, BackendSQLite:
			cfg.SaveBackend = strings.ToLower(v)
		default:
			return Config{}, fmt.Errorf("%s=%q: want %q or %q", KeySaveBackend, v, BackendFile, BackendSQLite)
		}
	}
	if v, ok := get(KeySaveDir); ok {
		cfg.SaveDir = v
		cfg.SaveDSN = filepath.Join(v, "saves.db")
	}
	if v, ok := get(KeySaveDSN); ok {
		cfg.SaveDSN = v
	}
	if v, ok := get(KeyLogFile); ok {
		cfg.LogFile = v
	}
	if v, ok := get(KeyPlain); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s=%q: %w", KeyPlain, v, err)
		}
		cfg.Plain = b
	}
	return cfg, nil
}
