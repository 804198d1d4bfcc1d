package cargo

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"

	"cargo-upgrade/internal/debug"
)

// ErrCrateNameRequired is returned when a search or install is given a blank name.
var ErrCrateNameRequired = zerr.New("crate name is required")

// CommandRunner executes external commands, allowing tests to inject stubs.
// Output returns the command's standard output; a non-zero exit is reported
// as *exec.ExitError alongside whatever was printed.
type CommandRunner interface {
	Output(ctx context.Context, bin string, args ...string) ([]byte, error)
}

type execCommandRunner struct{}

func (execCommandRunner) Output(ctx context.Context, bin string, args ...string) ([]byte, error) {
	//nolint:gosec // G204: CLI wrapper intentionally shells out to cargo
	return exec.CommandContext(ctx, bin, args...).Output()
}

// Client wraps the cargo binary.
type Client struct {
	bin    string
	locked bool
	runner CommandRunner
}

// Option configures the Client.
type Option func(*Client)

// WithBinaryPath overrides the command used to invoke cargo.
func WithBinaryPath(path string) Option {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.bin = strings.TrimSpace(path)
		}
	}
}

// WithLocked controls whether installs pass --locked.
func WithLocked(locked bool) Option {
	return func(c *Client) {
		c.locked = locked
	}
}

// WithRunner replaces the runner used for list and search invocations.
func WithRunner(runner CommandRunner) Option {
	return func(c *Client) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// NewClient constructs a cargo-backed client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		bin:    "cargo",
		locked: true,
		runner: execCommandRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InstalledList returns the raw output of `cargo install --list`.
func (c *Client) InstalledList(ctx context.Context) ([]byte, error) {
	out, err := c.output(ctx, "install", "--list")
	if err != nil {
		return nil, zerr.Wrap(err, "run cargo install --list")
	}
	return out, nil
}

// Search returns the raw output of a single-result, colorless, quiet registry search.
func (c *Client) Search(ctx context.Context, name string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, zerr.Wrap(ErrCrateNameRequired, "search")
	}
	out, err := c.output(ctx, "search", name, "--limit=1", "--color=never", "-q")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "run cargo search"), "crate", name)
	}
	return out, nil
}

// Install runs `cargo install <name>` and feeds every stderr line to onLine as it
// arrives. It blocks until the process exits and returns its exit code. A process
// killed by a signal reports exit code 1.
func (c *Client) Install(ctx context.Context, name string, onLine func(string)) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, zerr.Wrap(ErrCrateNameRequired, "install")
	}
	args := []string{"install", name}
	if c.locked {
		args = append(args, "--locked")
	}

	debug.Log("starting install", "bin", c.bin, "args", args)
	//nolint:gosec // G204: CLI wrapper intentionally shells out to cargo
	cmd := exec.CommandContext(ctx, c.bin, args...)
	stdout := &logWriter{prefix: name}
	cmd.Stdout = stdout
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "capture stderr"), "crate", name)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "capture stdin"), "crate", name)
	}
	if err := cmd.Start(); err != nil {
		return 0, zerr.With(classifyCLIError(c.bin, args, err, nil), "crate", name)
	}
	_ = stdin.Close()

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 0, zerr.With(zerr.Wrap(err, "read cargo install output"), "crate", name)
	}

	err = cmd.Wait()
	_ = stdout.Close()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "wait for cargo install"), "crate", name)
	}
	return 0, nil
}

func (c *Client) output(ctx context.Context, args ...string) ([]byte, error) {
	debug.Log("running cargo", "bin", c.bin, "args", args)
	out, err := c.runner.Output(ctx, c.bin, args...)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Output is parsed leniently; a failing list or search degrades to fewer matches.
		if debug.Enabled() {
			debug.Log("cargo exited non-zero", "args", args, "code", exitErr.ExitCode(), "stderr", snippet(exitErr.Stderr))
		}
		return out, nil
	}
	if err != nil {
		return nil, classifyCLIError(c.bin, args, err, out)
	}
	return out, nil
}
