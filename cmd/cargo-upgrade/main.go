package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"cargo-upgrade/internal/cargo"
	"cargo-upgrade/internal/config"
	"cargo-upgrade/internal/debug"
	apperrors "cargo-upgrade/internal/errors"
	"cargo-upgrade/internal/inventory"
	"cargo-upgrade/internal/outdated"
	"cargo-upgrade/internal/progress"
	"cargo-upgrade/internal/registry"
	"cargo-upgrade/internal/selfupdate"
	"cargo-upgrade/internal/ui"
	"cargo-upgrade/internal/upgrade"
)

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.execute(context.Background(), os.Args[1:]))
}

// app carries flag values and the seams tests replace.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// runner and lookPath default to the real cargo binary when nil.
	runner   cargo.CommandRunner
	lookPath cargo.LookPathFunc
	// relocator defaults to moving the running executable when nil.
	relocator upgrade.Relocator

	debug      bool
	noColor    bool
	jsonOut    bool
	configPath string
}

func (a *app) execute(ctx context.Context, args []string) int {
	defer debug.Close()

	root := a.rootCommand()
	root.SetArgs(normalizeArgs(args))
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := fang.Execute(ctx, root,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
		fang.WithoutManpage(),
		fang.WithoutCompletions(),
	); err != nil {
		debug.Log("command failed", "code", apperrors.CodeOf(err), "err", err)
		return 1
	}
	return 0
}

const errorWrapWidth = 100

// errorHandler prints fatal errors with the failing phase and crate first.
// Missing cargo has already been explained at length, so it prints nothing more.
func errorHandler(w io.Writer, _ fang.Styles, err error) {
	if apperrors.IsCode(err, apperrors.CodeCLINotFound) {
		return
	}
	_, _ = fmt.Fprintln(w, wordwrap.String("Error: "+err.Error(), errorWrapWidth))
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "cargo-upgrade [command]",
		Short:             "Upgrade globally installed cargo crates",
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printHelp(cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.debug, "debug", false, "write a debug log to ~/.cargo-upgrade/debug.log")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&a.jsonOut, "json", false, "print the outdated set as JSON")
	flags.StringVar(&a.configPath, "config", "", "config file (default is ~/.cargo-upgrade/config.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:     cmdUpdate,
			Aliases: []string{"upgrade", "u"},
			Short:   "Upgrade every outdated crate",
			Args:    cobra.NoArgs,
			RunE:    a.runUpdate,
		},
		&cobra.Command{
			Use:     cmdOutdated,
			Aliases: []string{"list", "show", "o", "l"},
			Short:   "Show outdated crates",
			Args:    cobra.NoArgs,
			RunE:    a.runOutdated,
		},
		&cobra.Command{
			Use:     cmdVersion,
			Aliases: []string{"v"},
			Short:   "Print the version",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printVersion(cmd.OutOrStdout(), selfName())
				return nil
			},
		},
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.Initialize(config.WithUserConfig(a.configPath)); err != nil {
		return apperrors.New(apperrors.CodeConfigurationError, "load configuration", err)
	}
	if a.noColor {
		if err := config.ApplyOverrides(map[string]any{config.KeyColor: ui.ColorNever}); err != nil {
			return apperrors.New(apperrors.CodeConfigurationError, "apply flags", err)
		}
	}

	rotation := debug.Rotation{
		MaxSizeMB:  config.GetInt(config.KeyLogMaxSizeMB),
		MaxBackups: config.GetInt(config.KeyLogMaxBackups),
		MaxAgeDays: config.GetInt(config.KeyLogMaxAgeDays),
	}
	if err := debug.Init(a.debug, rotation); err != nil {
		return fmt.Errorf("initialize debug log: %w", err)
	}
	debug.Log("starting", "command", cmd.Name(), "version", Version, "self", selfName())
	return nil
}

func (a *app) runOutdated(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client, err := a.cargoClient(cmd)
	if err != nil {
		return err
	}

	// Keep stdout parseable when printing JSON.
	statusOut := out
	if a.jsonOut {
		statusOut = cmd.ErrOrStderr()
	}
	builder, err := a.outdatedBuilder(client, reporterFactory(statusOut))
	if err != nil {
		return err
	}

	items, err := builder.Outdated(ctx)
	if err != nil {
		return err
	}
	if a.jsonOut {
		return ui.WriteOutdatedJSON(out, items)
	}
	return ui.WriteOutdated(out, ui.NewStyles(out, config.GetString(config.KeyColor)), items)
}

func (a *app) runUpdate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client, err := a.cargoClient(cmd)
	if err != nil {
		return err
	}

	newReporter := reporterFactory(out)
	builder, err := a.outdatedBuilder(client, newReporter)
	if err != nil {
		return err
	}
	items, err := builder.Outdated(ctx)
	if err != nil {
		return err
	}

	relocator := a.relocator
	if relocator == nil {
		relocator = selfupdate.NewRelocator(selfName())
	}
	orchestrator := upgrade.New(client, relocator,
		upgrade.Options{
			SelfName: selfName(),
			DevBuild: isDevBuild() || config.GetBool(config.KeySelfDevBuild),
		},
		upgrade.WithOutput(out, ui.NewStyles(out, config.GetString(config.KeyColor))),
		upgrade.WithReporter(newReporter),
	)
	return orchestrator.Run(ctx, items)
}

// cargoClient checks that cargo runs and returns a client for it.
func (a *app) cargoClient(cmd *cobra.Command) (*cargo.Client, error) {
	bin := config.GetString(config.KeyCargoBin)
	info, err := cargo.CheckVersion(cmd.Context(), cargo.VersionCheckOptions{
		Bin:      bin,
		Runner:   a.runner,
		LookPath: a.lookPath,
	})
	if handleCargoCheckResult(cmd.ErrOrStderr(), info, err) {
		return nil, apperrors.New(apperrors.CodeCLINotFound, "cargo not found", err)
	}
	debug.Log("using cargo", "bin", info.Bin, "version", info.Installed)

	opts := []cargo.Option{
		cargo.WithBinaryPath(bin),
		cargo.WithLocked(config.GetBool(config.KeyInstallLocked)),
	}
	if a.runner != nil {
		opts = append(opts, cargo.WithRunner(a.runner))
	}
	return cargo.NewClient(opts...), nil
}

func (a *app) outdatedBuilder(client *cargo.Client, newReporter progress.Factory) (*outdated.Builder, error) {
	var source inventory.Source = inventory.NewListSource(client)
	if config.GetString(config.KeyInventorySource) == config.InventorySourceManifest {
		manifest, err := inventory.NewManifestSource(config.GetString(config.KeyCargoHome))
		if err != nil {
			return nil, apperrors.New(apperrors.CodeConfigurationError, "locate cargo home", err)
		}
		debug.Log("reading installed crates from manifest", "path", manifest.Path())
		source = manifest
	}
	return outdated.NewBuilder(source, registry.NewResolver(client), outdated.WithReporter(newReporter)), nil
}

// reporterFactory animates on terminals and prints only final lines elsewhere.
func reporterFactory(w io.Writer) progress.Factory {
	styles := ui.NewStyles(w, config.GetString(config.KeyColor))
	tty, width := progress.Terminal(w)
	return progress.NewFactory(w, progress.Options{
		Animate: tty,
		Width:   width,
		Styles: progress.Styles{
			Frame:   styles.Spinner,
			Success: styles.Success,
			Failure: styles.Failure,
			Warning: styles.Warning,
		},
	})
}

func (a *app) printHelp(w io.Writer) error {
	format := config.GetString(config.KeyHelpFormat)
	if config.GetString(config.KeyColor) == ui.ColorNever {
		format = "plain"
	}
	width := 80
	if tty, termWidth := progress.Terminal(w); tty && termWidth > 0 {
		width = termWidth
	} else if !tty {
		format = "plain"
	}
	_, err := fmt.Fprintln(w, ui.RenderHelp(format, width, selfName(), Version))
	return err
}

func selfName() string {
	return config.GetString(config.KeySelfName)
}
