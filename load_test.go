package ilo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/axesilo/ilo/streams"
)

// prefs mirrors a small app config with optional fields.
type prefs struct {
	URL     *string `json:"url" yaml:"url" toml:"url"`
	Comment *string `json:"comment" yaml:"comment" toml:"comment"`
}

// counted is used for type-mismatch scenarios.
type counted struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setConfigHome(t *testing.T) string {
	t.Helper()
	d := t.TempDir()
	t.Setenv(configHomeEnv, d)
	return d
}

func TestLoad_FirstRunDefaults(t *testing.T) {
	home := setConfigHome(t)

	cfg, err := Load[counted]("fresh")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := *cfg.Data(); got != (counted{}) {
		t.Fatalf("first-run value = %+v, want zero value", got)
	}
	// Load alone must not create the file.
	if _, err := os.Stat(filepath.Join(home, "fresh.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("config file must not exist after load, stat err = %v", err)
	}
}

func TestLoad_WithDefaultFn(t *testing.T) {
	setConfigHome(t)

	cfg, err := Load[counted]("fresh", WithDefaultFn(func() *counted {
		return &counted{Name: "seed", Count: 3}
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data().Name != "seed" || cfg.Data().Count != 3 {
		t.Fatalf("default factory not applied: %+v", cfg.Data())
	}
}

func TestLoad_ExistingFile(t *testing.T) {
	home := setConfigHome(t)
	seed := `{"name":"alice","count":7}`
	if err := os.WriteFile(filepath.Join(home, "app.json"), []byte(seed), 0o600); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	cfg, err := Load[counted]("app")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data().Name != "alice" || cfg.Data().Count != 7 {
		t.Fatalf("loaded value = %+v", cfg.Data())
	}
	if cfg.Path() != filepath.Join(home, "app.json") {
		t.Fatalf("Path() = %q", cfg.Path())
	}
	if cfg.Name() != "app" {
		t.Fatalf("Name() = %q", cfg.Name())
	}
}

func TestLoad_TypeMismatchIsDecodeError(t *testing.T) {
	home := setConfigHome(t)
	// count carries a string where the schema expects a number.
	seed := `{"name":"alice","count":"seven"}`
	if err := os.WriteFile(filepath.Join(home, "bad.json"), []byte(seed), 0o600); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	_, err := Load[counted]("bad")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Load error = %v, want errors.Is(ErrDecode)", err)
	}
	if !strings.Contains(err.Error(), "count") {
		t.Fatalf("decode error should locate the offending field, got: %v", err)
	}
}

func TestLoad_MalformedFileIsDecodeError(t *testing.T) {
	home := setConfigHome(t)
	if err := os.WriteFile(filepath.Join(home, "bad.json"), []byte(`{"name":`), 0o600); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	if _, err := Load[counted]("bad"); !errors.Is(err, ErrDecode) {
		t.Fatalf("Load error = %v, want errors.Is(ErrDecode)", err)
	}
}

func TestLoad_UnreadableFileIsReadError(t *testing.T) {
	home := setConfigHome(t)
	// A directory sitting where the file should be fails the read, not the
	// not-exists branch.
	if err := os.Mkdir(filepath.Join(home, "dir.json"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := Load[counted]("dir")
	if !errors.Is(err, ErrRead) {
		t.Fatalf("Load error = %v, want errors.Is(ErrRead)", err)
	}
	if errors.Is(err, ErrDecode) {
		t.Fatalf("read failure must not be classified as decode: %v", err)
	}
}

func TestLoad_StreamsNotifications(t *testing.T) {
	home := setConfigHome(t)
	bs := streams.Buffers()

	if _, err := Load[counted]("note", WithStreams[counted](bs)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, _ := bs.Strings()
	if !strings.Contains(out, "using defaults") {
		t.Fatalf("expected first-run notice, got %q", out)
	}

	bs.Reset()
	if err := os.WriteFile(filepath.Join(home, "note.json"), []byte(`{"name":"x","count":1}`), 0o600); err != nil {
		t.Fatalf("seed write: %v", err)
	}
	if _, err := Load[counted]("note", WithStreams[counted](bs)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, _ = bs.Strings()
	if !strings.Contains(out, "loaded config from") {
		t.Fatalf("expected loaded notice, got %q", out)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	home := setConfigHome(t)
	if err := os.WriteFile(filepath.Join(home, "svc.json"), []byte(`{"name":"fromfile","count":1}`), 0o600); err != nil {
		t.Fatalf("seed write: %v", err)
	}
	t.Setenv("APP_COUNT", "42")

	cfg, err := Load[counted]("svc", WithEnvOverrides[counted]("APP"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data().Name != "fromfile" {
		t.Fatalf("Name = %q, want file value untouched", cfg.Data().Name)
	}
	if cfg.Data().Count != 42 {
		t.Fatalf("Count = %d, want env override 42", cfg.Data().Count)
	}
}

func TestLoad_EnvOverridesOffByDefault(t *testing.T) {
	home := setConfigHome(t)
	if err := os.WriteFile(filepath.Join(home, "svc.json"), []byte(`{"name":"fromfile","count":1}`), 0o600); err != nil {
		t.Fatalf("seed write: %v", err)
	}
	t.Setenv("COUNT", "42")

	cfg, err := Load[counted]("svc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data().Count != 1 {
		t.Fatalf("Count = %d, want file value 1 (no overrides requested)", cfg.Data().Count)
	}
}

func TestLoad_OverridePrecedenceTwoHomes(t *testing.T) {
	d1 := t.TempDir()
	d2 := t.TempDir()

	t.Setenv(configHomeEnv, d1)
	c1, err := Load[counted]("cfg")
	if err != nil {
		t.Fatalf("Load under first override: %v", err)
	}
	c1.Data().Name = "one"
	if err := c1.Save(); err != nil {
		t.Fatalf("Save under first override: %v", err)
	}

	t.Setenv(configHomeEnv, d2)
	c2, err := Load[counted]("cfg")
	if err != nil {
		t.Fatalf("Load under second override: %v", err)
	}
	// The second home has no file yet; defaults apply.
	if c2.Data().Name != "" {
		t.Fatalf("second home should start from defaults, got %+v", c2.Data())
	}
	c2.Data().Name = "two"
	if err := c2.Save(); err != nil {
		t.Fatalf("Save under second override: %v", err)
	}

	for _, p := range []string{filepath.Join(d1, "cfg.json"), filepath.Join(d2, "cfg.json")} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected config file at %s: %v", p, err)
		}
	}
}
