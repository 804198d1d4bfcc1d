package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	KeyCargoBin        = "cargo.bin"
	KeyCargoHome       = "cargo.home"
	KeyInventorySource = "inventory.source"
	KeyInstallLocked   = "install.locked"

	KeySelfName     = "self.name"
	KeySelfDevBuild = "self.dev-build"

	KeyColor      = "color"
	KeyHelpFormat = "help.format"

	KeyLogMaxSizeMB  = "log.max-size-mb"
	KeyLogMaxBackups = "log.max-backups"
	KeyLogMaxAgeDays = "log.max-age-days"
)

const (
	// DefaultSelfName is the crate name this tool is published under.
	DefaultSelfName = "cargo-upgrade-command"

	// InventorySourceList parses `cargo install --list`.
	InventorySourceList = "list"
	// InventorySourceManifest reads $CARGO_HOME/.crates.toml.
	InventorySourceManifest = "manifest"

	envPrefix = "CU"
	dirName   = ".cargo-upgrade"
)

type initSettings struct {
	userConfigPath string
}

// Option configures Initialize behaviour. Useful for tests to override paths.
type Option func(*initSettings)

// WithUserConfig overrides the default user config path.
func WithUserConfig(path string) Option {
	return func(cfg *initSettings) {
		cfg.userConfigPath = path
	}
}

var (
	configOnce sync.Once
	configMu   sync.RWMutex
	configInst *viper.Viper
	initErr    error
)

// Initialize loads configuration using the precedence:
// defaults < user config < environment variables < overrides.
func Initialize(opts ...Option) error {
	configOnce.Do(func() {
		settings := initSettings{}
		for _, opt := range opts {
			opt(&settings)
		}
		initErr = configure(&settings)
	})
	return initErr
}

// ApplyOverrides injects values typically coming from CLI flags.
func ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	if err := Initialize(); err != nil {
		return err
	}
	configMu.Lock()
	defer configMu.Unlock()
	if configInst == nil {
		return fmt.Errorf("configuration not initialized")
	}
	for k, v := range overrides {
		configInst.Set(k, v)
	}
	return nil
}

// GetString fetches a string configuration value, initializing on demand.
func GetString(key string) string {
	v, err := getViper()
	if err != nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool fetches a bool configuration value, initializing on demand.
func GetBool(key string) bool {
	v, err := getViper()
	if err != nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt fetches an integer configuration value, initializing on demand.
func GetInt(key string) int {
	v, err := getViper()
	if err != nil {
		return 0
	}
	return v.GetInt(key)
}

func configure(settings *initSettings) error {
	userConfigPath := strings.TrimSpace(settings.userConfigPath)
	if userConfigPath == "" {
		path, err := DefaultUserConfigPath()
		if err != nil {
			return err
		}
		userConfigPath = path
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := mergeConfigFile(v, userConfigPath); err != nil {
		return fmt.Errorf("load user config: %w", err)
	}
	if err := validate(v); err != nil {
		return err
	}

	configMu.Lock()
	defer configMu.Unlock()
	configInst = v
	return nil
}

func mergeConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	//nolint:gosec // G304: Config loader intentionally reads the user config file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func validate(v *viper.Viper) error {
	switch source := strings.TrimSpace(v.GetString(KeyInventorySource)); source {
	case InventorySourceList, InventorySourceManifest:
	default:
		return fmt.Errorf("invalid %s %q (want %q or %q)", KeyInventorySource, source, InventorySourceList, InventorySourceManifest)
	}
	switch color := strings.ToLower(strings.TrimSpace(v.GetString(KeyColor))); color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid %s %q (want auto, always or never)", KeyColor, color)
	}
	if strings.TrimSpace(v.GetString(KeySelfName)) == "" {
		return fmt.Errorf("%s must not be empty", KeySelfName)
	}
	return nil
}

// DefaultUserConfigPath returns ~/.cargo-upgrade/config.yaml.
func DefaultUserConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Dir returns the per-user directory holding config and logs.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyCargoBin, "cargo")
	v.SetDefault(KeyCargoHome, "")
	v.SetDefault(KeyInventorySource, InventorySourceList)
	v.SetDefault(KeyInstallLocked, true)
	v.SetDefault(KeySelfName, DefaultSelfName)
	v.SetDefault(KeySelfDevBuild, false)
	v.SetDefault(KeyColor, "auto")
	v.SetDefault(KeyHelpFormat, "rich")
	v.SetDefault(KeyLogMaxSizeMB, 5)
	v.SetDefault(KeyLogMaxBackups, 2)
	v.SetDefault(KeyLogMaxAgeDays, 14)
}

func getViper() (*viper.Viper, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	configMu.RLock()
	defer configMu.RUnlock()
	if configInst == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return configInst, nil
}

// reset clears package state for tests.
func reset() {
	configMu.Lock()
	defer configMu.Unlock()
	configInst = nil
	initErr = nil
	configOnce = sync.Once{}
}

// ResetForTesting clears package state for tests in other packages and
// initializes against an empty user config inside the test's temp dir.
// Returns a cleanup function that should be deferred.
func ResetForTesting(t interface{ TempDir() string }) func() {
	reset()
	tmp := t.TempDir()
	_ = Initialize(WithUserConfig(filepath.Join(tmp, "config.yaml")))
	return reset
}
