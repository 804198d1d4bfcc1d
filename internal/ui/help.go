package ui

import (
	"fmt"
	"strings"
)

const helpTemplate = `# %[1]s v%[2]s

Upgrade globally installed cargo crates.

## Usage

    cargo upgrade [command]

## Commands

| Command | Aliases | Description |
|---|---|---|
| ` + "`update`" + ` | ` + "`upgrade`, `u`" + ` | Upgrade every outdated crate |
| ` + "`outdated`" + ` | ` + "`list`, `show`, `o`, `l`" + ` | Show outdated crates |
| ` + "`version`" + ` | ` + "`v`" + ` | Print the version |
| ` + "`help`" + ` | ` + "`h`" + ` | Print this help message |

Commands may also be given as flags, e.g. ` + "`--update`" + ` or ` + "`-o`" + `.

## Flags

- ` + "`--json`" + `: print the outdated set as JSON
- ` + "`--debug`" + `: write a debug log to ` + "`~/.cargo-upgrade/debug.log`" + `
- ` + "`--no-color`" + `: disable colored output
- ` + "`--config <path>`" + `: use an alternate config file
`

// HelpMarkdown returns the help text as markdown.
func HelpMarkdown(name, version string) string {
	return fmt.Sprintf(helpTemplate, name, strings.TrimPrefix(version, "v"))
}

// RenderHelp renders the help text for a terminal of the given width. The
// "plain" format skips markdown styling and only wraps.
func RenderHelp(format string, width int, name, version string) string {
	if width <= 0 {
		width = 80
	}
	return buildMarkdownRenderer(format, width)(HelpMarkdown(name, version))
}
