// Package codesign re-signs installed launchers with the system codesign
// tool. macOS kills unsigned arm64 executables on launch, so every rewrite
// that replaces an entry point needs a fresh signature, ad-hoc by default.
package codesign

import (
	"context"
	"fmt"
	"os/exec"
)

// AdHocIdentity signs without a certificate.
const AdHocIdentity = "-"

// Signer drives the system codesign tool.
type Signer struct {
	// Identity is handed to --sign. Empty means AdHocIdentity.
	Identity string

	// Tool overrides the codesign binary, for tests.
	Tool string

	// XattrTool overrides the xattr binary, for tests.
	XattrTool string
}

// Sign force-signs the executable at path, stripping the quarantine
// attribute first. Quarantine removal is best-effort: the attribute rarely
// exists on files that were just written.
func (s Signer) Sign(ctx context.Context, path string) error {
	identity := s.Identity
	if identity == "" {
		identity = AdHocIdentity
	}
	tool := s.Tool
	if tool == "" {
		tool = "codesign"
	}
	xattr := s.XattrTool
	if xattr == "" {
		xattr = "xattr"
	}

	_ = exec.CommandContext(ctx, xattr, "-d", "com.apple.quarantine", path).Run()

	cmd := exec.CommandContext(ctx, tool, "--sign", identity, "--force", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("codesign --sign %s: %v: %s", identity, err, out)
	}
	return nil
}
