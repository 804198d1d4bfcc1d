package inventory

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/zerr"

	"cargo-upgrade/internal/domain"
)

// ManifestFileName is cargo's record of crates installed with `cargo install`.
const ManifestFileName = ".crates.toml"

// ErrManifestUnreadable is returned when .crates.toml exists but cannot be read or decoded.
var ErrManifestUnreadable = zerr.New("cannot read installed crates manifest")

type manifest struct {
	V1 map[string][]string `toml:"v1"`
}

// ManifestSource reads $CARGO_HOME/.crates.toml instead of spawning cargo.
type ManifestSource struct {
	path string
}

// NewManifestSource returns a Source reading the manifest under cargoHome.
// An empty cargoHome falls back to $CARGO_HOME, then ~/.cargo.
func NewManifestSource(cargoHome string) (*ManifestSource, error) {
	home, err := resolveCargoHome(cargoHome)
	if err != nil {
		return nil, err
	}
	return &ManifestSource{path: filepath.Join(home, ManifestFileName)}, nil
}

// Path returns the manifest location.
func (s *ManifestSource) Path() string {
	return s.path
}

// Installed reads the manifest. A missing manifest means nothing is installed.
func (s *ManifestSource) Installed(ctx context.Context) ([]domain.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	//nolint:gosec // G304: manifest path is derived from the cargo home directory
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Package{}, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrManifestUnreadable.Error()), "path", s.path)
	}
	pkgs, err := ParseManifest(data)
	if err != nil {
		return nil, zerr.With(err, "path", s.path)
	}
	return pkgs, nil
}

// ParseManifest decodes the [v1] table of .crates.toml. Keys look like
// "<name> <version> (<source>)"; keys that do not split into at least a name
// and a version are skipped. The table is unordered, so records come back
// sorted by key.
func ParseManifest(data []byte) ([]domain.Package, error) {
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, zerr.Wrap(err, ErrManifestUnreadable.Error())
	}
	keys := make([]string, 0, len(m.V1))
	for key := range m.V1 {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	packages := make([]domain.Package, 0, len(keys))
	for _, key := range keys {
		fields := strings.Fields(key)
		if len(fields) < 2 {
			continue
		}
		packages = append(packages, domain.Package{
			Name:      fields[0],
			Installed: strings.TrimPrefix(fields[1], "v"),
		})
	}
	return packages, nil
}

func resolveCargoHome(cargoHome string) (string, error) {
	if home := strings.TrimSpace(cargoHome); home != "" {
		return home, nil
	}
	if home := strings.TrimSpace(os.Getenv("CARGO_HOME")); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", zerr.Wrap(err, "determine user home")
	}
	return filepath.Join(userHome, ".cargo"), nil
}
