package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cargo-upgrade/internal/cargo"
)

const rustupURL = "https://rustup.rs"

// handleCargoCheckResult prints guidance for a failed cargo check and reports
// whether the command must stop.
func handleCargoCheckResult(w io.Writer, info cargo.VersionInfo, err error) bool {
	if err == nil {
		return false
	}

	var vErr cargo.VersionError
	if errors.As(err, &vErr) {
		switch vErr.Kind {
		case cargo.VersionErrorNotInstalled:
			_, _ = fmt.Fprint(w, formatCargoNotInstalledMessage(info.Bin))
			return true
		case cargo.VersionErrorCommandFailed, cargo.VersionErrorParse:
			_, _ = fmt.Fprint(w, formatCargoVersionWarning(info, err))
			return false
		default:
			_, _ = fmt.Fprintf(w, "Warning: cargo check failed: %v\n", err)
			return false
		}
	}

	_, _ = fmt.Fprintf(w, "Warning: cargo check failed: %v\n", err)
	return false
}

func formatCargoNotInstalledMessage(bin string) string {
	if strings.TrimSpace(bin) == "" {
		bin = "cargo"
	}
	return fmt.Sprintf(`Error: cargo is required but not found

cargo-upgrade manages crates installed with cargo install.

Installation:
  Install the Rust toolchain from:
  %[1]s

After installation, ensure %[2]s is in your PATH:
  export PATH="$PATH:$HOME/.cargo/bin"

Or point cargo.bin in ~/.cargo-upgrade/config.yaml at it.

`, rustupURL, bin)
}

func formatCargoVersionWarning(info cargo.VersionInfo, err error) string {
	bin := info.Bin
	if strings.TrimSpace(bin) == "" {
		bin = "cargo"
	}
	errorText := "unknown error"
	if err != nil {
		errorText = strings.TrimSpace(err.Error())
		if errorText == "" {
			errorText = "unknown error"
		}
	}
	return fmt.Sprintf(`Warning: Could not verify cargo

Attempted to run: %s --version
Error: %s

Troubleshooting:
  - Ensure %s is in your PATH: which %s
  - Check cargo works: %s install --list

Continuing anyway, but you may encounter errors...

`, bin, errorText, bin, bin, bin)
}
