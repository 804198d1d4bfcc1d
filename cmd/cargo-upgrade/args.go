package main

import "strings"

const (
	cmdUpdate   = "update"
	cmdOutdated = "outdated"
	cmdVersion  = "version"
)

var commandAliases = map[string]string{
	"update":   cmdUpdate,
	"upgrade":  cmdUpdate,
	"u":        cmdUpdate,
	"outdated": cmdOutdated,
	"list":     cmdOutdated,
	"show":     cmdOutdated,
	"o":        cmdOutdated,
	"l":        cmdOutdated,
	"version":  cmdVersion,
	"v":        cmdVersion,
}

// normalizeArgs rewrites the raw command line into cobra form. cargo runs
// the plugin as `cargo-upgrade upgrade [args]`, so the last token that is not
// a global flag picks the command, with leading dashes ignored: `-u`,
// `--update` and a bare `upgrade` all mean update. Anything unrecognized
// yields no command at all, which prints help. The result is never nil so
// cobra does not fall back to os.Args.
func normalizeArgs(args []string) []string {
	globals := []string{}
	last := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--debug", arg == "--no-color", arg == "--json":
			globals = append(globals, arg)
		case strings.HasPrefix(arg, "--config="):
			globals = append(globals, arg)
		case arg == "--config" && i+1 < len(args):
			globals = append(globals, arg, args[i+1])
			i++
		default:
			last = arg
		}
	}

	name, ok := commandAliases[strings.TrimLeft(strings.TrimSpace(last), "-")]
	if !ok {
		return globals
	}
	return append([]string{name}, globals...)
}
