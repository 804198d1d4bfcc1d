// Package registry resolves the latest published version of a crate by
// scraping the text printed by `cargo search`.
package registry

import (
	"context"
	"strings"

	"go.trai.ch/zerr"

	"cargo-upgrade/internal/debug"
)

// ErrUnterminatedVersion is returned when a search response names the crate
// but its version string never closes.
var ErrUnterminatedVersion = zerr.New("search response has an unterminated version string")

// Searcher runs a registry search and returns its raw text output.
type Searcher interface {
	Search(ctx context.Context, name string) ([]byte, error)
}

// Resolver looks up latest versions through a Searcher.
type Resolver struct {
	searcher Searcher
}

// NewResolver returns a Resolver backed by searcher.
func NewResolver(searcher Searcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// Latest returns the newest published version of name. found is false when the
// registry's top result is some other crate, or nothing at all.
func (r *Resolver) Latest(ctx context.Context, name string) (version string, found bool, err error) {
	out, err := r.searcher.Search(ctx, name)
	if err != nil {
		return "", false, err
	}
	version, found, err = ParseSearch(name, string(out))
	if err != nil {
		return "", false, err
	}
	debug.Log("resolved crate", "crate", name, "found", found, "latest", version)
	return version, found, nil
}

// ParseSearch extracts the version from a response shaped like
// `<name> = "<version>"    # description`. Any response not starting with
// exactly `<name> = "` is a miss.
func ParseSearch(name, text string) (string, bool, error) {
	prefix := name + ` = "`
	if !strings.HasPrefix(text, prefix) {
		return "", false, nil
	}
	rest := text[len(prefix):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false, zerr.With(zerr.Wrap(ErrUnterminatedVersion, "parse cargo search output"), "crate", name)
	}
	return rest[:end], true, nil
}
