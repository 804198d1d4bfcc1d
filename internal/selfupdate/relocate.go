// Package selfupdate moves the running executable out of the way so cargo can
// write a fresh binary to its install path.
package selfupdate

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/zerr"

	"cargo-upgrade/internal/debug"
)

// Relocator moves the running binary into <temp>/<name>/.
type Relocator struct {
	name       string
	executable func() (string, error)
	tempDir    func() string
	goos       string
}

// Option configures a Relocator.
type Option func(*Relocator)

// WithExecutable overrides how the running binary's path is found.
func WithExecutable(fn func() (string, error)) Option {
	return func(r *Relocator) {
		if fn != nil {
			r.executable = fn
		}
	}
}

// WithTempDir overrides the temp root the scratch directory lives under.
func WithTempDir(fn func() string) Option {
	return func(r *Relocator) {
		if fn != nil {
			r.tempDir = fn
		}
	}
}

// WithGOOS overrides the platform used to pick the executable extension.
func WithGOOS(goos string) Option {
	return func(r *Relocator) {
		r.goos = goos
	}
}

// NewRelocator returns a Relocator whose scratch directory is named after name.
func NewRelocator(name string, opts ...Option) *Relocator {
	r := &Relocator{
		name:       name,
		executable: os.Executable,
		tempDir:    os.TempDir,
		goos:       runtime.GOOS,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScratchDir is the directory relocated binaries are moved into.
func (r *Relocator) ScratchDir() string {
	return filepath.Join(r.tempDir(), r.name)
}

// Relocate moves the running executable into a freshly created scratch
// directory and returns its new path. Leftovers from earlier runs are removed
// first. Any filesystem error is returned as is.
func (r *Relocator) Relocate() (string, error) {
	execPath, err := r.executable()
	if err != nil {
		return "", zerr.Wrap(err, "get executable path")
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "resolve symlinks"), "path", execPath)
	}

	dir := r.ScratchDir()
	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return "", zerr.With(zerr.Wrap(err, "remove stale scratch directory"), "path", dir)
		}
	}
	//nolint:gosec // G301: scratch directory holds an executable
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", zerr.With(zerr.Wrap(err, "create scratch directory"), "path", dir)
	}

	dest, err := freePath(dir, filepath.Base(execPath), r.goos)
	if err != nil {
		return "", err
	}
	if err := os.Rename(execPath, dest); err != nil {
		return "", zerr.With(zerr.With(zerr.Wrap(err, "move executable"), "from", execPath), "to", dest)
	}
	debug.Logf("relocated running executable from %s to %s", execPath, dest)
	return dest, nil
}

// freePath returns dir/base, or dir/<stem>-N when that is taken. On windows
// the suffixed name keeps the .exe extension.
func freePath(dir, base, goos string) (string, error) {
	candidate := filepath.Join(dir, base)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for i := 1; ; i++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "check scratch path"), "path", candidate)
		}
		name := fmt.Sprintf("%s-%d", stem, i)
		if goos == "windows" {
			name += ".exe"
		}
		candidate = filepath.Join(dir, name)
	}
}
