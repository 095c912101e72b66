package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/vibegraph/internal/config"
)

func TestWriteSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := writeSampleConfig(path, false); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, found, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !found || resolved != path {
		t.Errorf("resolved = %q, found = %v", resolved, found)
	}
	if cfg.Server.Addr != config.Default().Server.Addr {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	if err := writeSampleConfig(path, false); err == nil {
		t.Error("expected error when the file exists")
	}
	if err := writeSampleConfig(path, true); err != nil {
		t.Errorf("force overwrite: %v", err)
	}
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibegraph.toml")
	if _, err := runCLI(t, "config", "init", path); err != nil {
		t.Fatal(err)
	}
	if _, _, found, err := config.Load(path); err != nil || !found {
		t.Errorf("Load after init: found = %v, err = %v", found, err)
	}
}
