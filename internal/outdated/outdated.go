// Package outdated builds the set of installed crates whose registry version
// differs from the installed one.
package outdated

import (
	"context"
	"errors"
	"fmt"

	"cargo-upgrade/internal/debug"
	"cargo-upgrade/internal/domain"
	apperrors "cargo-upgrade/internal/errors"
	"cargo-upgrade/internal/inventory"
	"cargo-upgrade/internal/progress"
	"cargo-upgrade/internal/registry"
)

// ScanMessage is shown for the whole scan.
const ScanMessage = "Scanning for outdated crates..."

// LatestResolver finds the newest published version of a crate.
type LatestResolver interface {
	Latest(ctx context.Context, name string) (version string, found bool, err error)
}

// Builder combines an inventory source with a resolver.
type Builder struct {
	source      inventory.Source
	resolver    LatestResolver
	newReporter progress.Factory
}

// Option configures a Builder.
type Option func(*Builder)

// WithReporter sets the progress display used during the scan.
func WithReporter(f progress.Factory) Option {
	return func(b *Builder) {
		if f != nil {
			b.newReporter = f
		}
	}
}

// NewBuilder returns a Builder reading installed crates from source.
func NewBuilder(source inventory.Source, resolver LatestResolver, opts ...Option) *Builder {
	b := &Builder{
		source:      source,
		resolver:    resolver,
		newReporter: progress.NopFactory,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Outdated lists installed crates, resolves each one in turn, and returns the
// outdated ones in inventory order. Crates the registry does not know are
// left out.
func (b *Builder) Outdated(ctx context.Context) ([]domain.Resolved, error) {
	r := b.newReporter(ScanMessage)
	defer r.Clear()

	pkgs, err := b.source.Installed(ctx)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeScanFailed, "scan installed crates", err)
	}
	debug.Log("scanned installed crates", "count", len(pkgs))

	latest := make(map[string]string, len(pkgs))
	for _, pkg := range pkgs {
		version, found, err := b.resolver.Latest(ctx, pkg.Name)
		if err != nil {
			code := apperrors.CodeResolveFailed
			if errors.Is(err, registry.ErrUnterminatedVersion) {
				code = apperrors.CodeParseFailed
			}
			return nil, apperrors.New(code, fmt.Sprintf("resolve latest version of %s", pkg.Name), err)
		}
		if found {
			latest[pkg.Name] = version
		}
	}

	result := Diff(pkgs, latest)
	debug.Log("built outdated set", "outdated", len(result), "installed", len(pkgs))
	return result, nil
}

// Diff pairs each package with its entry in latest and keeps those whose
// versions differ. Packages missing from latest are skipped.
func Diff(pkgs []domain.Package, latest map[string]string) []domain.Resolved {
	result := []domain.Resolved{}
	for _, pkg := range pkgs {
		version, ok := latest[pkg.Name]
		if !ok {
			continue
		}
		if r := pkg.Resolve(version); r.Outdated() {
			result = append(result, r)
		}
	}
	return result
}
