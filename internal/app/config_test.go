package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthurssouza42/fit/internal/app"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := app.Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Storage.Backend != app.BackendSQLite || cfg.Catalog.Path != "alimentos.csv" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	got := cfg.Targets.Targets()
	if got.EnergyKcal != 2670 || got.ProteinG != 210 || got.CarbohydrateG != 300 || got.FatG != 70 {
		t.Fatalf("unexpected default targets %+v", got)
	}
}

func TestReadConfigFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `catalog:
  path: /data/taco.csv
  delimiter: ";"
search:
  fuzzy_threshold: 0.5
storage:
  backend: csv
targets:
  energy_kcal: 2200
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg := app.Defaults()
	if err := app.ReadConfigFile(&cfg, path, true); err != nil {
		t.Fatalf("read config: %v", err)
	}
	if cfg.Catalog.Path != "/data/taco.csv" || cfg.Storage.Backend != app.BackendCSV || cfg.Search.FuzzyThreshold != 0.5 {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if cfg.Targets.EnergyKcal != 2200 || cfg.Targets.ProteinG != 210 {
		t.Fatalf("targets must overlay defaults: %+v", cfg.Targets)
	}
	if cfg.Search.MaxResults != app.Defaults().Search.MaxResults {
		t.Fatalf("unset keys must keep defaults")
	}
}

func TestReadConfigFileMissing(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	cfg := app.Defaults()
	if err := app.ReadConfigFile(&cfg, missing, false); err != nil {
		t.Fatalf("optional config file: %v", err)
	}
	if err := app.ReadConfigFile(&cfg, missing, true); err == nil {
		t.Fatalf("expected error for a required missing file")
	}
}

func TestReadConfigFileRejectsInvalidBackend(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: mongo\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg := app.Defaults()
	if err := app.ReadConfigFile(&cfg, path, true); err == nil {
		t.Fatalf("expected invalid backend error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()
	env := map[string]string{
		"FIT_CATALOG_PATH":           "taco.csv",
		"FIT_SEARCH_FUZZY_THRESHOLD": "0,3",
		"FIT_TARGETS_PROTEIN_G":      "180",
		"FIT_UNRELATED":              "x",
	}
	cfg := app.Defaults()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Catalog.Path != "taco.csv" || cfg.Search.FuzzyThreshold != 0.3 || cfg.Targets.ProteinG != 180 {
		t.Fatalf("env not applied: %+v", cfg)
	}

	bad := app.Defaults()
	err = bad.ApplyEnv(func(k string) (string, bool) {
		if k == "FIT_SEARCH_MAX_RESULTS" {
			return "lots", true
		}
		return "", false
	})
	if err == nil {
		t.Fatalf("expected invalid env value error")
	}
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()
	cfg := app.Defaults()
	if err := cfg.Set("Storage.Backend", "CSV"); err != nil {
		t.Fatalf("set backend: %v", err)
	}
	if v, _ := cfg.Get("storage.backend"); v != app.BackendCSV {
		t.Fatalf("expected csv, got %q", v)
	}
	if err := cfg.Set("search.max_results", "25"); err != nil {
		t.Fatalf("set max results: %v", err)
	}
	if v, _ := cfg.Get("search.max_results"); v != "25" {
		t.Fatalf("expected 25, got %q", v)
	}
	for _, tc := range []struct{ key, value string }{
		{"search.fuzzy_threshold", "1.5"},
		{"search.max_results", "many"},
		{"storage.backend", "postgres"},
		{"catalog.delimiter", "|"},
		{"nope", "1"},
	} {
		c := app.Defaults()
		if err := c.Set(tc.key, tc.value); err == nil {
			t.Fatalf("expected error for %s=%s", tc.key, tc.value)
		}
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestEnvName(t *testing.T) {
	t.Parallel()
	if got := app.EnvName("search.fuzzy_threshold"); got != "FIT_SEARCH_FUZZY_THRESHOLD" {
		t.Fatalf("unexpected env name %q", got)
	}
}

func TestParseDelimiter(t *testing.T) {
	t.Parallel()
	cases := map[string]rune{
		"":            0,
		"auto":        0,
		";":           ';',
		"comma":       ',',
		"TAB":         '\t',
		`\t`:          '\t',
		" semicolon ": ';',
	}
	for in, want := range cases {
		got, err := app.ParseDelimiter(in)
		if err != nil || got != want {
			t.Fatalf("ParseDelimiter(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := app.ParseDelimiter("|"); err == nil {
		t.Fatalf("expected error for unsupported delimiter")
	}
}

func TestDefaultPathsFollowUserConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	got, err := app.DefaultDBPath()
	if err != nil {
		t.Fatalf("default db path: %v", err)
	}
	if filepath.Base(got) != "fit.db" || filepath.Base(filepath.Dir(got)) != "fit" {
		t.Fatalf("unexpected db path %q", got)
	}
	nested := filepath.Join(dir, "a", "b", "fit.db")
	if err := app.EnsureDBDir(nested); err != nil {
		t.Fatalf("ensure db dir: %v", err)
	}
	if st, err := os.Stat(filepath.Dir(nested)); err != nil || !st.IsDir() {
		t.Fatalf("expected directory to exist: %v", err)
	}
}
