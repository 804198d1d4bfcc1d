package cargo

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// VersionInfo captures metadata about the cargo binary discovered during checks.
type VersionInfo struct {
	Bin       string
	Installed string
}

// VersionErrorKind categorizes failures encountered while validating the CLI.
type VersionErrorKind string

const (
	VersionErrorUnknown       VersionErrorKind = "unknown"
	VersionErrorNotInstalled  VersionErrorKind = "not_installed"
	VersionErrorCommandFailed VersionErrorKind = "command_failed"
	VersionErrorParse         VersionErrorKind = "parse_failed"
)

// VersionError wraps failures with their category and optional inner error.
type VersionError struct {
	Kind VersionErrorKind
	Info VersionInfo
	Err  error
}

// Error implements the error interface.
func (e VersionError) Error() string {
	switch {
	case e.Err != nil:
		return e.Err.Error()
	case e.Kind == VersionErrorNotInstalled:
		return "cargo not found"
	case e.Kind == VersionErrorParse:
		return "failed to parse cargo version"
	case e.Kind == VersionErrorCommandFailed:
		return "failed to run cargo --version"
	default:
		return "cargo version check failed"
	}
}

// Unwrap exposes the wrapped error.
func (e VersionError) Unwrap() error {
	return e.Err
}

// LookPathFunc resolves a binary reference to an executable path.
type LookPathFunc func(bin string) (string, error)

// VersionCheckOptions configure how CheckVersion locates cargo.
type VersionCheckOptions struct {
	Bin      string
	Runner   CommandRunner
	LookPath LookPathFunc
}

var versionRegex = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)(?:-[0-9A-Za-z.-]+)?`)

// CheckVersion verifies that cargo can be found and reports its version.
func CheckVersion(ctx context.Context, opts VersionCheckOptions) (VersionInfo, error) {
	bin := strings.TrimSpace(opts.Bin)
	if bin == "" {
		bin = "cargo"
	}
	info := VersionInfo{Bin: bin}

	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	runner := opts.Runner
	if runner == nil {
		runner = execCommandRunner{}
	}

	resolvedBin, err := lookPath(bin)
	if err != nil {
		return info, VersionError{Kind: VersionErrorNotInstalled, Info: info, Err: err}
	}

	out, err := runner.Output(ctx, resolvedBin, "--version")
	if err != nil {
		return info, VersionError{Kind: VersionErrorCommandFailed, Info: info, Err: err}
	}

	match := versionRegex.FindString(strings.TrimSpace(string(out)))
	if match == "" {
		return info, VersionError{
			Kind: VersionErrorParse,
			Info: info,
			Err:  fmt.Errorf("no version found in %q", strings.TrimSpace(string(out))),
		}
	}
	info.Installed = match
	return info, nil
}
