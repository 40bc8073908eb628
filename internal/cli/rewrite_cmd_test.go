package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const testOriginal = "original binary bytes"

const testInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleExecutable</key>
	<string>%s</string>
</dict>
</plist>
`

// newTestRoot clears the env overrides so host settings cannot leak into
// command behavior, then builds a root command wired to buffers.
func newTestRoot(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	for _, k := range []string{"LAUNCHWRAP_CONFIG", "LAUNCHWRAP_STRATEGY", "LAUNCHWRAP_INTERPRETER", "LAUNCHWRAP_SIGNING_IDENTITY", "LAUNCHWRAP_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	root := NewRoot("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	return root, &out, &errOut
}

func writeTestApp(t *testing.T, dir, name string) (appPath, target string) {
	t.Helper()
	appPath = filepath.Join(dir, name+".app")
	macos := filepath.Join(appPath, "Contents", "MacOS")
	if err := os.MkdirAll(macos, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	plist := fmt.Sprintf(testInfoPlist, name)
	if err := os.WriteFile(filepath.Join(appPath, "Contents", "Info.plist"), []byte(plist), 0o644); err != nil {
		t.Fatalf("write plist: %v", err)
	}
	target = filepath.Join(macos, name)
	if err := os.WriteFile(target, []byte(testOriginal), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	return appPath, target
}

// writeTestConfig writes a config that keeps tests hermetic: signing off so
// no codesign binary is needed.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	cfg := "strategy: script\nsigning:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

type resultJSON struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
	AppPath string `json:"app_path"`
}

func TestRewriteCmd_WrapsAndIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	appPath, target := writeTestApp(t, tmp, "MyApp")
	cfgPath := writeTestConfig(t, tmp)

	root, out, _ := newTestRoot(t)
	root.SetArgs([]string{"rewrite", "--config", cfgPath, "--json", appPath})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	var results []resultJSON
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("parse output %q: %v", out.String(), err)
	}
	if len(results) != 1 || results[0].Outcome != "rewritten" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[0].ID == "" {
		t.Fatalf("expected a result ID")
	}

	preserved, err := os.ReadFile(target + ".real")
	if err != nil {
		t.Fatalf("read preserved original: %v", err)
	}
	if string(preserved) != testOriginal {
		t.Fatalf("preserved original corrupted: %q", preserved)
	}
	launcherBytes, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read launcher: %v", err)
	}
	if !strings.Contains(string(launcherBytes), "LAUNCHWRAP_REAL") {
		t.Fatalf("entry point is not a launcher: %q", launcherBytes)
	}

	root, out, _ = newTestRoot(t)
	root.SetArgs([]string{"rewrite", "--config", cfgPath, "--json", appPath})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("second rewrite: %v", err)
	}
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(results) != 1 || results[0].Outcome != "already-wrapped" {
		t.Fatalf("expected already-wrapped, got: %+v", results)
	}
}

func TestRewriteCmd_HumanOutput(t *testing.T) {
	tmp := t.TempDir()
	appPath, _ := writeTestApp(t, tmp, "MyApp")
	cfgPath := writeTestConfig(t, tmp)

	root, out, _ := newTestRoot(t)
	root.SetArgs([]string{"rewrite", "--config", cfgPath, appPath})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !strings.HasPrefix(out.String(), "rewritten ") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRewriteCmd_MissingAppFails(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := writeTestConfig(t, tmp)

	root, _, errOut := newTestRoot(t)
	root.SetArgs([]string{"rewrite", "--config", cfgPath, filepath.Join(tmp, "Absent.app")})
	err := root.ExecuteContext(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "1 of 1 applications failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut.String(), "entry-point executable not found") {
		t.Fatalf("missing cause on stderr: %q", errOut.String())
	}
}

func TestRewriteCmd_PartialFailure(t *testing.T) {
	tmp := t.TempDir()
	appPath, target := writeTestApp(t, tmp, "Good")
	cfgPath := writeTestConfig(t, tmp)

	root, _, _ := newTestRoot(t)
	root.SetArgs([]string{"rewrite", "--config", cfgPath, appPath, filepath.Join(tmp, "Bad.app")})
	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "1 of 2 applications failed") {
		t.Fatalf("unexpected error: %v", err)
	}

	// The good application was still wrapped.
	if _, err := os.Stat(target + ".real"); err != nil {
		t.Fatalf("expected preserved original: %v", err)
	}
}

func TestRewriteCmd_InvalidStrategyFlag(t *testing.T) {
	tmp := t.TempDir()
	appPath, _ := writeTestApp(t, tmp, "MyApp")
	cfgPath := writeTestConfig(t, tmp)

	root, _, _ := newTestRoot(t)
	root.SetArgs([]string{"rewrite", "--config", cfgPath, "--strategy", "zsh", appPath})
	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), `invalid strategy "zsh"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRewriteCmd_ProfileFlagsReplaceConfig(t *testing.T) {
	tmp := t.TempDir()
	appPath, target := writeTestApp(t, tmp, "MyApp")
	cfgPath := writeTestConfig(t, tmp)

	root, _, _ := newTestRoot(t)
	root.SetArgs([]string{
		"rewrite", "--config", cfgPath,
		"--profile", ".zprofile",
		"--profile", ".profile",
		"--package-dir", "/opt/custom/bin",
		appPath,
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	launcherBytes, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read launcher: %v", err)
	}
	script := string(launcherBytes)
	if !strings.Contains(script, ".zprofile") || !strings.Contains(script, ".profile") {
		t.Fatalf("profiles missing from launcher:\n%s", script)
	}
	if !strings.Contains(script, "/opt/custom/bin") {
		t.Fatalf("package dir missing from launcher:\n%s", script)
	}
	if strings.Contains(script, ".bash_profile") {
		t.Fatalf("config default profiles should have been replaced:\n%s", script)
	}
}
