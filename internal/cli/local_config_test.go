package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLocalConfig_FlagPath(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("strategy: compiled\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root, _, _ := newTestRoot(t)
	if err := root.PersistentFlags().Set("config", cfgPath); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg, err := loadLocalConfig(root)
	if err != nil {
		t.Fatalf("loadLocalConfig: %v", err)
	}
	if cfg.Strategy != "compiled" {
		t.Fatalf("strategy = %q, want compiled", cfg.Strategy)
	}
}

func TestLoadLocalConfig_EnvVar(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "env.yaml")
	if err := os.WriteFile(cfgPath, []byte("strategy: compiled\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// The env var feeds the flag default, so it must be set before the
	// root command is built.
	t.Setenv("LAUNCHWRAP_CONFIG", cfgPath)
	root := NewRoot("test")
	cfg, err := loadLocalConfig(root)
	if err != nil {
		t.Fatalf("loadLocalConfig: %v", err)
	}
	if cfg.Strategy != "compiled" {
		t.Fatalf("strategy = %q, want compiled", cfg.Strategy)
	}
}

func TestLoadLocalConfig_MissingFlagFileFails(t *testing.T) {
	root, _, _ := newTestRoot(t)
	if err := root.PersistentFlags().Set("config", filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if _, err := loadLocalConfig(root); err == nil {
		t.Fatalf("expected error for an explicitly named missing file")
	}
}

func TestRoot_Version(t *testing.T) {
	root, out, _ := newTestRoot(t)
	root.SetArgs([]string{"--version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := out.String(); got != "launchwrap test\n" {
		t.Fatalf("unexpected version output: %q", got)
	}
}
