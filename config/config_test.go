package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Seed != 0 || cfg.EncounterChance != DefaultEncounterChance || cfg.Archetype != "" || cfg.Plain {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.SaveBackend != BackendFile {
		t.Errorf("SaveBackend = %q", cfg.SaveBackend)
	}
	if !strings.HasSuffix(cfg.SaveDir, filepath.Join(".lyre", "saves")) {
		t.Errorf("SaveDir = %q", cfg.SaveDir)
	}
	if cfg.SaveDSN != filepath.Join(cfg.SaveDir, "saves.db") {
		t.Errorf("SaveDSN = %q", cfg.SaveDSN)
	}
}

func TestParse_AllKeys(t *testing.T) {
	cfg, err := Parse(map[string]string{
		KeySeed:            "42",
		KeyEncounterChance: "0.5",
		KeyArchetype:       "warrior",
		KeySaveBackend:     "SQLite",
		KeySaveDir:         "/tmp/lyre",
		KeyLogFile:         "/tmp/lyre.log",
		KeyPlain:           "true",
		"UNRELATED":        "ignored",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Config{
		Seed:            42,
		EncounterChance: 0.5,
		Archetype:       "warrior",
		SaveBackend:     BackendSQLite,
		SaveDir:         "/tmp/lyre",
		SaveDSN:         filepath.Join("/tmp/lyre", "saves.db"),
		LogFile:         "/tmp/lyre.log",
		Plain:           true,
	}
	if cfg != want {
		t.Errorf("got %+v\nwant %+v", cfg, want)
	}
}

func TestParse_ExplicitDSN(t *testing.T) {
	cfg, err := Parse(map[string]string{KeySaveDir: "/a", KeySaveDSN: "file:/b/x.db"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.SaveDSN != "file:/b/x.db" {
		t.Errorf("SaveDSN = %q", cfg.SaveDSN)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{KeySeed, "abc"},
		{KeyEncounterChance, "often"},
		{KeyEncounterChance, "1.5"},
		{KeyEncounterChance, "-0.1"},
		{KeyArchetype, "necromancer"},
		{KeySaveBackend, "postgres"},
		{KeyPlain, "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := Parse(map[string]string{tt.key: tt.value})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	content := "LYRE_SEED=7\nLYRE_ARCHETYPE=mage\n# comment\nLYRE_ENCOUNTER_CHANCE=0.1\n"
	if err := os.WriteFile(env, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(KeySeed, "99")
	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("environment should override the file: Seed = %d", cfg.Seed)
	}
	if cfg.Archetype != "mage" || cfg.EncounterChance != 0.1 {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	if err != nil {
		t.Fatalf("a missing .env is not an error: %v", err)
	}
	if cfg.EncounterChance != DefaultEncounterChance {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\"): %v", err)
	}
}
