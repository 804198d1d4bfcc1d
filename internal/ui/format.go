package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cargo-upgrade/internal/domain"
)

// OutdatedHeader introduces the outdated listing.
const OutdatedHeader = "Outdated global cargo crates:"

var outdatedRule = strings.Repeat("=", 31)

// Versions returns the "v"-prefixed installed and latest versions of r,
// colored old and new.
func (s Styles) Versions(r domain.Resolved) (string, string) {
	return s.OldVersion.Render("v" + r.Installed), s.NewVersion.Render("v" + r.Latest)
}

// Announcement is the line printed before a crate is reinstalled.
func (s Styles) Announcement(r domain.Resolved) string {
	oldV, newV := s.Versions(r)
	return fmt.Sprintf("Upgrading %s from %s to %s", r.Name, oldV, newV)
}

// WriteOutdated prints the human listing of outdated crates. Nothing is
// written for an empty set.
func WriteOutdated(w io.Writer, s Styles, items []domain.Resolved) error {
	if len(items) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(s.Header.Render(OutdatedHeader))
	b.WriteByte('\n')
	b.WriteString(s.Rule.Render(outdatedRule))
	b.WriteByte('\n')
	for _, item := range items {
		oldV, newV := s.Versions(item)
		fmt.Fprintf(&b, "📦 %s: %s -> %s\n", s.Crate.Render(item.Name), oldV, newV)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type outdatedJSON struct {
	Name      string `json:"name"`
	Installed string `json:"installed"`
	Latest    string `json:"latest"`
}

// WriteOutdatedJSON prints items as a JSON array, "[]" when empty.
func WriteOutdatedJSON(w io.Writer, items []domain.Resolved) error {
	out := make([]outdatedJSON, 0, len(items))
	for _, item := range items {
		out = append(out, outdatedJSON{Name: item.Name, Installed: item.Installed, Latest: item.Latest})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
