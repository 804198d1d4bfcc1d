package domain

// Package is a globally installed crate as reported by the local inventory.
// Installed never carries the leading "v" the inventory prints.
type Package struct {
	Name      string
	Installed string
}

// Resolved is a Package after its latest registry version has been looked up.
type Resolved struct {
	Package
	Latest string
}

// Resolve pairs p with the latest published version.
func (p Package) Resolve(latest string) Resolved {
	return Resolved{Package: p, Latest: latest}
}

// Outdated reports whether the registry version differs from the installed one.
// This is a plain string comparison; a locally newer version also counts.
func (r Resolved) Outdated() bool {
	return r.Latest != r.Installed
}
