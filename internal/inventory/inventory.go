// Package inventory turns cargo's view of globally installed crates into
// ordered domain.Package records.
package inventory

import (
	"bufio"
	"context"
	"strings"

	"cargo-upgrade/internal/domain"
)

// Source yields the installed crates in the order cargo reports them.
type Source interface {
	Installed(ctx context.Context) ([]domain.Package, error)
}

// Lister produces the raw `cargo install --list` text.
type Lister interface {
	InstalledList(ctx context.Context) ([]byte, error)
}

// ListSource parses the output of `cargo install --list`.
type ListSource struct {
	lister Lister
}

// NewListSource returns a Source backed by cargo's list command.
func NewListSource(lister Lister) *ListSource {
	return &ListSource{lister: lister}
}

// Installed runs the list command and parses its output.
func (s *ListSource) Installed(ctx context.Context) ([]domain.Package, error) {
	out, err := s.lister.InstalledList(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(string(out)), nil
}

// Parse extracts package headers of the form "<name> v<version>:" from list output.
// Every other line (installed binaries, blank lines, warnings) is skipped.
func Parse(text string) []domain.Package {
	packages := []domain.Package{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if pkg, ok := parseHeader(line); ok {
			packages = append(packages, pkg)
		}
	}
	return packages
}

func parseHeader(line string) (domain.Package, bool) {
	if !strings.HasSuffix(line, ":") {
		return domain.Package{}, false
	}
	name, rest, ok := strings.Cut(line, " ")
	if !ok || !strings.HasPrefix(rest, "v") {
		return domain.Package{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Package{}, false
	}
	version := strings.TrimLeft(strings.TrimRight(strings.TrimSpace(rest), ":"), "v")
	return domain.Package{Name: name, Installed: version}, true
}
