// Package upgrade reinstalls outdated crates one at a time, streaming cargo's
// progress output to a status line.
package upgrade

//go:generate mockgen -source=upgrade.go -destination=mocks/mock_upgrade.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cargo-upgrade/internal/debug"
	"cargo-upgrade/internal/domain"
	apperrors "cargo-upgrade/internal/errors"
	"cargo-upgrade/internal/progress"
	"cargo-upgrade/internal/ui"
)

const (
	// LoadingMessage is shown until cargo prints its first line.
	LoadingMessage = "Loading..."
	// SkipSelfMessage is printed instead of upgrading ourselves in a dev build.
	SkipSelfMessage = "Skipping self update in debug mode"
)

// Installer runs `cargo install` for one crate. onLine receives every line
// cargo writes to stderr. The returned code is the process exit code.
type Installer interface {
	Install(ctx context.Context, name string, onLine func(string)) (int, error)
}

// Relocator moves the running executable away from its install path.
type Relocator interface {
	Relocate() (string, error)
}

// Options identify the running tool.
type Options struct {
	// SelfName is the crate this binary was installed from.
	SelfName string
	// DevBuild skips upgrading SelfName entirely.
	DevBuild bool
}

// Outcome is the terminal state of one install.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
	OutcomeWarning
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "warning"
	}
}

// Classify maps an install exit code to its outcome.
func Classify(code int) Outcome {
	switch code {
	case 0:
		return OutcomeSuccess
	case 1:
		return OutcomeFailure
	default:
		return OutcomeWarning
	}
}

// Orchestrator upgrades crates sequentially.
type Orchestrator struct {
	installer   Installer
	relocator   Relocator
	opts        Options
	out         io.Writer
	styles      ui.Styles
	newReporter progress.Factory
	now         func() time.Time
}

// Setting configures an Orchestrator.
type Setting func(*Orchestrator)

// WithOutput sets where announcements go and how they are styled.
func WithOutput(w io.Writer, styles ui.Styles) Setting {
	return func(o *Orchestrator) {
		if w != nil {
			o.out = w
			o.styles = styles
		}
	}
}

// WithReporter sets the per-crate progress display.
func WithReporter(f progress.Factory) Setting {
	return func(o *Orchestrator) {
		if f != nil {
			o.newReporter = f
		}
	}
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) Setting {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns an Orchestrator.
func New(installer Installer, relocator Relocator, opts Options, settings ...Setting) *Orchestrator {
	o := &Orchestrator{
		installer:   installer,
		relocator:   relocator,
		opts:        opts,
		out:         io.Discard,
		styles:      ui.NewStyles(io.Discard, ui.ColorNever),
		newReporter: progress.NopFactory,
		now:         time.Now,
	}
	for _, s := range settings {
		s(o)
	}
	return o
}

// Run upgrades items in order. The first relocation or install error stops
// the run; crates after it are not attempted. A non-zero cargo exit is
// reported on the status line and does not stop the run.
func (o *Orchestrator) Run(ctx context.Context, items []domain.Resolved) error {
	doneOne := false
	for _, item := range items {
		if doneOne {
			_, _ = fmt.Fprintln(o.out)
		}
		if item.Name == o.opts.SelfName {
			if o.opts.DevBuild {
				_, _ = fmt.Fprintln(o.out, o.styles.Muted.Render(SkipSelfMessage))
				continue
			}
			if _, err := o.relocator.Relocate(); err != nil {
				return apperrors.New(apperrors.CodeRelocateFailed,
					fmt.Sprintf("relocate running executable before upgrading %s", item.Name), err)
			}
		}

		_, _ = fmt.Fprintln(o.out, o.styles.Announcement(item))
		if err := o.upgrade(ctx, item); err != nil {
			return apperrors.New(apperrors.CodeUpgradeFailed, fmt.Sprintf("upgrade %s", item.Name), err)
		}
		doneOne = true
	}
	return nil
}

func (o *Orchestrator) upgrade(ctx context.Context, item domain.Resolved) error {
	r := o.newReporter(LoadingMessage)

	var lastLine string
	start := o.now()
	code, err := o.installer.Install(ctx, item.Name, func(line string) {
		lastLine = line
		r.Update(strings.TrimSpace(line))
	})
	elapsed := o.now().Sub(start)
	if err != nil {
		r.Clear()
		return err
	}

	status := fmt.Sprintf("%s [%s]", strings.TrimSpace(lastLine), ui.FormatElapsed(elapsed))
	outcome := Classify(code)
	switch outcome {
	case OutcomeSuccess:
		r.Success(status)
	case OutcomeFailure:
		r.Fail(status)
	default:
		r.Warn(status)
	}
	debug.Log("install finished", "crate", item.Name, "exit", code, "outcome", outcome, "elapsed", elapsed)
	return nil
}
