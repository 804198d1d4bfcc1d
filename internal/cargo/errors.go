package cargo

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	appErrors "cargo-upgrade/internal/errors"
)

const maxErrorSnippetLen = 200

// CLIError wraps errors coming from invoking the cargo binary.
type CLIError struct {
	Binary  string
	Command []string
	Output  string
	Err     error
}

func (e CLIError) Error() string {
	bin := e.Binary
	if bin == "" {
		bin = "cargo"
	}
	cmd := strings.Join(append([]string{bin}, e.Command...), " ")
	if e.Output != "" {
		return fmt.Sprintf("%s failed: %s", cmd, e.Output)
	}
	return fmt.Sprintf("%s failed: %v", cmd, e.Err)
}

func (e CLIError) Unwrap() error {
	return e.Err
}

func classifyCLIError(binary string, args []string, err error, output []byte) error {
	if errors.Is(err, exec.ErrNotFound) {
		return appErrors.New(appErrors.CodeCLINotFound, fmt.Sprintf("%s binary not found in PATH", binary), err)
	}
	return appErrors.New(appErrors.CodeCLIFailed, "", CLIError{
		Binary:  binary,
		Command: args,
		Output:  snippet(output),
		Err:     err,
	})
}

func snippet(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > maxErrorSnippetLen {
		s = s[:maxErrorSnippetLen] + "..."
	}
	return s
}
