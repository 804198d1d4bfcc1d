package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeLoadsDefaults(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	userCfg := filepath.Join(tmp, "user.yaml")

	if err := Initialize(WithUserConfig(userCfg)); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := GetString(KeyCargoBin); got != "cargo" {
		t.Fatalf("expected default %s to be cargo, got %q", KeyCargoBin, got)
	}
	if got := GetString(KeyInventorySource); got != InventorySourceList {
		t.Fatalf("expected default %s to be %q, got %q", KeyInventorySource, InventorySourceList, got)
	}
	if !GetBool(KeyInstallLocked) {
		t.Fatalf("expected default %s to be true", KeyInstallLocked)
	}
	if got := GetString(KeySelfName); got != DefaultSelfName {
		t.Fatalf("expected default %s to be %q, got %q", KeySelfName, DefaultSelfName, got)
	}
	if GetBool(KeySelfDevBuild) {
		t.Fatalf("expected default %s to be false", KeySelfDevBuild)
	}
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	userCfg := filepath.Join(tmp, "user.yaml")
	writeFile(t, userCfg, `
cargo:
  bin: /opt/rust/bin/cargo
install:
  locked: false
inventory:
  source: manifest
`)

	if err := Initialize(WithUserConfig(userCfg)); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := GetString(KeyCargoBin); got != "/opt/rust/bin/cargo" {
		t.Fatalf("expected user config to win for %s, got %q", KeyCargoBin, got)
	}
	if GetBool(KeyInstallLocked) {
		t.Fatalf("expected install.locked to be false after merging user config")
	}
	if got := GetString(KeyInventorySource); got != InventorySourceManifest {
		t.Fatalf("expected manifest source, got %q", got)
	}
}

func TestEnvironmentAndOverridesPrecedence(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	userCfg := filepath.Join(tmp, "user.yaml")
	writeFile(t, userCfg, `
self:
  name: from-file
color: always
`)

	t.Setenv("CU_SELF_NAME", "from-env")
	t.Setenv("CU_SELF_DEV_BUILD", "true")

	if err := Initialize(WithUserConfig(userCfg)); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := GetString(KeySelfName); got != "from-env" {
		t.Fatalf("expected env override for %s, got %q", KeySelfName, got)
	}
	if !GetBool(KeySelfDevBuild) {
		t.Fatalf("expected environment variable to set %s", KeySelfDevBuild)
	}

	if err := ApplyOverrides(map[string]any{KeyColor: "never"}); err != nil {
		t.Fatalf("ApplyOverrides returned error: %v", err)
	}
	if got := GetString(KeyColor); got != "never" {
		t.Fatalf("expected CLI override for %s, got %q", KeyColor, got)
	}
}

func TestInitializeRejectsUnknownInventorySource(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	userCfg := filepath.Join(tmp, "user.yaml")
	writeFile(t, userCfg, "inventory:\n  source: registry\n")

	if err := Initialize(WithUserConfig(userCfg)); err == nil {
		t.Fatalf("expected error for unknown inventory source")
	}
}

func TestInitializeRejectsDirectoryConfig(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	if err := Initialize(WithUserConfig(tmp)); err == nil {
		t.Fatalf("expected error when config path is a directory")
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	mustMkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}
