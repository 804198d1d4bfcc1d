package main

import (
	"reflect"
	"testing"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "no args prints help", args: nil, want: []string{}},
		{name: "cargo plugin bare", args: []string{"upgrade"}, want: []string{"update"}},
		{name: "cargo plugin update flag", args: []string{"upgrade", "--update"}, want: []string{"update"}},
		{name: "short update", args: []string{"upgrade", "-u"}, want: []string{"update"}},
		{name: "update word", args: []string{"update"}, want: []string{"update"}},
		{name: "outdated", args: []string{"upgrade", "outdated"}, want: []string{"outdated"}},
		{name: "list flag", args: []string{"upgrade", "--list"}, want: []string{"outdated"}},
		{name: "show", args: []string{"show"}, want: []string{"outdated"}},
		{name: "short outdated", args: []string{"upgrade", "-o"}, want: []string{"outdated"}},
		{name: "short list", args: []string{"l"}, want: []string{"outdated"}},
		{name: "version flag", args: []string{"upgrade", "--version"}, want: []string{"version"}},
		{name: "short version", args: []string{"-v"}, want: []string{"version"}},
		{name: "help flag", args: []string{"upgrade", "--help"}, want: []string{}},
		{name: "unknown token", args: []string{"upgrade", "frobnicate"}, want: []string{}},
		{name: "last token wins", args: []string{"upgrade", "-o", "-v"}, want: []string{"version"}},
		{
			name: "globals kept after command",
			args: []string{"upgrade", "--debug", "-o", "--json", "--no-color"},
			want: []string{"outdated", "--debug", "--json", "--no-color"},
		},
		{
			name: "config with equals",
			args: []string{"upgrade", "--config=/tmp/c.yaml", "-u"},
			want: []string{"update", "--config=/tmp/c.yaml"},
		},
		{
			name: "config value is not a command",
			args: []string{"-u", "--config", "list"},
			want: []string{"update", "--config", "list"},
		},
		{name: "globals without command", args: []string{"--debug"}, want: []string{"--debug"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeArgs(tt.args)
			if got == nil {
				t.Fatalf("normalizeArgs(%v) returned nil", tt.args)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("normalizeArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
