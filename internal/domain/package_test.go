package domain

import "testing"

func TestResolvedOutdated(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		latest    string
		want      bool
	}{
		{name: "newer release", installed: "1.2.3", latest: "1.3.0", want: true},
		{name: "same release", installed: "1.2.3", latest: "1.2.3", want: false},
		{name: "local build ahead of registry", installed: "1.4.0", latest: "1.3.0", want: true},
		{name: "prerelease differs", installed: "1.0.0-beta.1", latest: "1.0.0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := Package{Name: "foo", Installed: tt.installed}
			if got := pkg.Resolve(tt.latest).Outdated(); got != tt.want {
				t.Errorf("Outdated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveKeepsInstalledData(t *testing.T) {
	pkg := Package{Name: "ripgrep", Installed: "13.0.0"}
	res := pkg.Resolve("14.1.0")
	if res.Name != "ripgrep" || res.Installed != "13.0.0" || res.Latest != "14.1.0" {
		t.Fatalf("unexpected resolved record %+v", res)
	}
}
