package launcher

import (
	"fmt"
	"strings"
)

// Script renders the shell-script launcher. The script resolves its own
// location first (following symlinks, so package-manager links to the app
// binary keep working), exports the preserved original's absolute path, and
// only then hands control to the interpreter with a fixed short $0. No
// foreign code runs before the location is pinned down, so profiles that
// change the working directory cannot break the final exec.
func Script(c Config) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}

	inter := c.interpreter()

	var b strings.Builder
	b.WriteString("#!" + inter + "\n")
	fmt.Fprintf(&b, "# Generated launcher. The original executable is preserved alongside this\n")
	fmt.Fprintf(&b, "# script as \"%s\"; to undo, delete this script and rename it back.\n", commentSafe(c.RealName))
	b.WriteString("\n")
	b.WriteString(`self="$0"
n=0
while [ -L "$self" ] && [ "$n" -lt 32 ]; do
	n=$((n + 1))
	dir=$(CDPATH= cd -- "$(dirname -- "$self")" && pwd -P) || exit 127
	link=$(readlink -- "$self") || exit 127
	case "$link" in
	/*) self="$link" ;;
	*) self="$dir/$link" ;;
	esac
done
dir=$(CDPATH= cd -- "$(dirname -- "$self")" && pwd -P) || exit 127
`)
	fmt.Fprintf(&b, "%s=\"$dir/%s\"\n", RealEnvVar, doubleQuoted(c.RealName))
	fmt.Fprintf(&b, "export %s\n", RealEnvVar)
	b.WriteString("\n")
	fmt.Fprintf(&b, "exec %s -c %s %s \"$@\"\n", shellQuote(inter), shellQuote("\n"+shellBody(c)), argv0Token)
	return b.String(), nil
}
