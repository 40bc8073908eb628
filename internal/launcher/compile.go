package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultCompiler is the C compiler driver used for the compiled strategy.
const DefaultCompiler = "clang"

// ClangCompiler builds launcher stubs by handing generated C source to the
// system clang driver, emitting one slice per requested architecture.
type ClangCompiler struct {
	// Path overrides the compiler binary. Empty means DefaultCompiler,
	// resolved from PATH.
	Path string
}

// Compile writes source to a scratch file and compiles it to outPath. Each
// entry of archs becomes an -arch flag, so a multi-entry slice produces a
// universal binary. An empty archs compiles for the host architecture.
func (cc ClangCompiler) Compile(ctx context.Context, source string, archs []string, outPath string) error {
	compiler := cc.Path
	if compiler == "" {
		compiler = DefaultCompiler
	}

	dir, err := os.MkdirTemp("", "launchwrap-stub-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "launcher.c")
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		return fmt.Errorf("write stub source: %w", err)
	}

	args := make([]string, 0, 2*len(archs)+4)
	for _, arch := range archs {
		args = append(args, "-arch", arch)
	}
	args = append(args, "-O2", "-o", outPath, src)

	cmd := exec.CommandContext(ctx, compiler, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %v: %s", compiler, err, out)
	}
	return nil
}
