package inventory_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-upgrade/internal/domain"
	"cargo-upgrade/internal/inventory"
)

const listOutput = `bat v0.24.0:
    bat
cargo-upgrade-command v0.3.1:
    cargo-upgrade
ripgrep v13.0.0:
    rg
`

func TestParse_SingleHeaderAmongNoise(t *testing.T) {
	text := "foo v1.2.3:\n    foo\nwarning: something unrelated\n\n"

	got := inventory.Parse(text)

	require.Len(t, got, 1)
	assert.Equal(t, domain.Package{Name: "foo", Installed: "1.2.3"}, got[0])
}

func TestParse_PreservesOrder(t *testing.T) {
	got := inventory.Parse(listOutput)

	assert.Equal(t, []domain.Package{
		{Name: "bat", Installed: "0.24.0"},
		{Name: "cargo-upgrade-command", Installed: "0.3.1"},
		{Name: "ripgrep", Installed: "13.0.0"},
	}, got)
}

func TestParse_Idempotent(t *testing.T) {
	assert.Equal(t, inventory.Parse(listOutput), inventory.Parse(listOutput))
}

func TestParse_Empty(t *testing.T) {
	got := inventory.Parse("")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "no trailing colon", line: "foo v1.0.0"},
		{name: "no space", line: "foo:"},
		{name: "remainder not version prefixed", line: "foo 1.0.0:"},
		{name: "empty name", line: " v1.0.0:"},
		{name: "indented binary", line: "    foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, inventory.Parse(tt.line))
		})
	}
}

func TestParse_PathInstallKeepsSourceSuffix(t *testing.T) {
	got := inventory.Parse("mytool v0.1.0 (/home/me/src/mytool):\r\n    mytool\r\n")

	require.Len(t, got, 1)
	assert.Equal(t, "mytool", got[0].Name)
	assert.Equal(t, "0.1.0 (/home/me/src/mytool)", got[0].Installed)
}

type stubLister struct {
	out []byte
	err error
}

func (s stubLister) InstalledList(context.Context) ([]byte, error) {
	return s.out, s.err
}

func TestListSource_Installed(t *testing.T) {
	src := inventory.NewListSource(stubLister{out: []byte(listOutput)})

	got, err := src.Installed(context.Background())

	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestListSource_PropagatesSpawnError(t *testing.T) {
	boom := errors.New("spawn failed")
	src := inventory.NewListSource(stubLister{err: boom})

	_, err := src.Installed(context.Background())

	require.ErrorIs(t, err, boom)
}

func TestParseManifest(t *testing.T) {
	data := []byte(`[v1]
"ripgrep 14.1.0 (registry+https://github.com/rust-lang/crates.io-index)" = ["rg"]
"bat 0.24.0 (registry+https://github.com/rust-lang/crates.io-index)" = ["bat"]
"broken" = []
`)

	got, err := inventory.ParseManifest(data)

	require.NoError(t, err)
	assert.Equal(t, []domain.Package{
		{Name: "bat", Installed: "0.24.0"},
		{Name: "ripgrep", Installed: "14.1.0"},
	}, got)
}

func TestParseManifest_Invalid(t *testing.T) {
	_, err := inventory.ParseManifest([]byte("[v1\nnot toml"))
	require.Error(t, err)
}

func TestManifestSource_MissingFileIsEmpty(t *testing.T) {
	src, err := inventory.NewManifestSource(t.TempDir())
	require.NoError(t, err)

	got, err := src.Installed(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestManifestSource_ReadsCargoHome(t *testing.T) {
	home := t.TempDir()
	manifestPath := filepath.Join(home, inventory.ManifestFileName)
	require.NoError(t, os.WriteFile(manifestPath, []byte(`[v1]
"foo 1.2.3 (registry+https://github.com/rust-lang/crates.io-index)" = ["foo"]
`), 0o644))

	src, err := inventory.NewManifestSource(home)
	require.NoError(t, err)
	assert.Equal(t, manifestPath, src.Path())

	got, err := src.Installed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Package{{Name: "foo", Installed: "1.2.3"}}, got)
}

func TestManifestSource_UsesCargoHomeEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CARGO_HOME", home)

	src, err := inventory.NewManifestSource("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, inventory.ManifestFileName), src.Path())
}
