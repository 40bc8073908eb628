package launcher

import (
	"fmt"
	"path/filepath"
	"strings"
)

// StubSource renders the C source for the compiled launcher stub. The stub
// mirrors the script trampoline: it resolves its own on-disk location via
// _NSGetExecutablePath, exports the preserved original's path, and execs the
// interpreter with the shared launch body and a fixed short $0. Keeping the
// logic in one generated translation unit means the stub needs no runtime
// files beyond the preserved original itself.
func StubSource(c Config) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}

	inter := c.interpreter()
	interName := filepath.Base(inter)
	body := strings.TrimSuffix(shellBody(c), "\n")

	var b strings.Builder
	b.WriteString("// Generated launcher stub. The original executable is preserved alongside\n")
	fmt.Fprintf(&b, "// this binary as \"%s\"; to undo, delete this binary and rename it back.\n", commentSafe(c.RealName))
	b.WriteString(`
#include <libgen.h>
#include <limits.h>
#include <mach-o/dyld.h>
#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>
#include <unistd.h>

static const char kLaunchBody[] =
`)
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		b.WriteString("\t\"" + cQuoted(line+"\n") + "\"")
		if i == len(lines)-1 {
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
	b.WriteString(`
int main(int argc, char *argv[]) {
	char exe[PATH_MAX];
	uint32_t cap = sizeof(exe);
	if (_NSGetExecutablePath(exe, &cap) != 0) {
		fprintf(stderr, "launcher: executable path longer than %lu bytes\n",
		    (unsigned long)sizeof(exe));
		return 127;
	}

	char self[PATH_MAX];
	if (realpath(exe, self) == NULL) {
		perror("launcher: realpath");
		return 127;
	}

	char real[PATH_MAX];
`)
	fmt.Fprintf(&b, "\tint n = snprintf(real, sizeof(real), \"%%s/%%s\", dirname(self), \"%s\");\n", cQuoted(c.RealName))
	b.WriteString(`	if (n < 0 || (size_t)n >= sizeof(real)) {
		fprintf(stderr, "launcher: preserved path too long\n");
		return 127;
	}

`)
	fmt.Fprintf(&b, "\tif (setenv(\"%s\", real, 1) != 0) {\n", RealEnvVar)
	b.WriteString(`		perror("launcher: setenv");
		return 127;
	}

	char **args = calloc((size_t)argc + 4, sizeof(*args));
	if (args == NULL) {
		perror("launcher: calloc");
		return 127;
	}
`)
	fmt.Fprintf(&b, "\targs[0] = \"%s\";\n", cQuoted(interName))
	b.WriteString(`	args[1] = "-c";
	args[2] = (char *)kLaunchBody;
`)
	fmt.Fprintf(&b, "\targs[3] = \"%s\";\n", argv0Token)
	b.WriteString(`	for (int i = 1; i < argc; i++) {
		args[i + 3] = argv[i];
	}
	args[argc + 3] = NULL;

`)
	fmt.Fprintf(&b, "\texecv(\"%s\", args);\n", cQuoted(inter))
	fmt.Fprintf(&b, "\tperror(\"launcher: execv %s\");\n", cQuoted(inter))
	b.WriteString(`	return 127;
}
`)
	return b.String(), nil
}
