package threadpool

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeTempConfig(t, "pool.yaml", `
max_threads: 8
keep_alive_period: 90s
provider:
  pin_workers: true
  respawn_rounds: 2
  respawn_initial: 50ms
  respawn_max: 2s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxThreads != 8 {
		t.Fatalf("max_threads = %d; want 8", cfg.MaxThreads)
	}

	opts := cfg.Options()
	if opts.KeepAlivePeriod != 90*time.Second {
		t.Fatalf("keep alive = %v; want 90s", opts.KeepAlivePeriod)
	}

	po := cfg.ProviderOptions()
	if !po.PinWorkers {
		t.Fatal("pin_workers not carried over")
	}
	if po.Respawn.Attempts != 2 || po.Respawn.Initial != 50*time.Millisecond || po.Respawn.Max != 2*time.Second {
		t.Fatalf("respawn policy = %+v", po.Respawn)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeTempConfig(t, "pool.json", `{
  "max_threads": 3,
  "keep_alive_period": "2m"
}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxThreads != 3 {
		t.Fatalf("max_threads = %d; want 3", cfg.MaxThreads)
	}
	if got := cfg.Options().KeepAlivePeriod; got != 2*time.Minute {
		t.Fatalf("keep alive = %v; want 2m", got)
	}
}

func TestLoadConfigDefaultsApply(t *testing.T) {
	path := writeTempConfig(t, "pool.yml", "max_threads: 1\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Options().KeepAlivePeriod; got != DefaultKeepAlivePeriod {
		t.Fatalf("keep alive = %v; want default %v", got, DefaultKeepAlivePeriod)
	}
	if got := cfg.ProviderOptions().Respawn; got.Attempts != 0 {
		// NewGoroutineProvider fills the rest
		t.Fatalf("respawn attempts = %d; want 0 before provider defaults", got.Attempts)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
	}{
		{"zero threads", "pool.yaml", "max_threads: 0\n"},
		{"bad duration", "pool.yaml", "max_threads: 2\nkeep_alive_period: soon\n"},
		{"bad extension", "pool.toml", "max_threads = 2\n"},
		{"malformed yaml", "pool.yaml", "max_threads: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, tc.file, tc.content)
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateMapsToSentinel(t *testing.T) {
	cfg := Config{MaxThreads: 0}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxThreads) {
		t.Fatalf("got %v; want ErrInvalidMaxThreads", err)
	}
}
