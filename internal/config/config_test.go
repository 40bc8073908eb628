package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ParsesAllFields(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(cfgPath, []byte(`
strategy: compiled
interpreter: /bin/bash
profiles:
  - .zshenv
  - .config/env
package_dirs:
  - /opt/homebrew/bin
system_path: /usr/bin:/bin
exclude:
  - "/Applications/Xcode*.app"
signing:
  enabled: false
  identity: "Developer ID Application: Example"
  required: true
logging:
  level: debug
  format: json
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Strategy != "compiled" {
		t.Errorf("Strategy = %q, want compiled", cfg.Strategy)
	}
	if cfg.Interpreter != "/bin/bash" {
		t.Errorf("Interpreter = %q, want /bin/bash", cfg.Interpreter)
	}
	if len(cfg.Profiles) != 2 || cfg.Profiles[0] != ".zshenv" || cfg.Profiles[1] != ".config/env" {
		t.Errorf("Profiles = %v", cfg.Profiles)
	}
	if len(cfg.PackageDirs) != 1 || cfg.PackageDirs[0] != "/opt/homebrew/bin" {
		t.Errorf("PackageDirs = %v", cfg.PackageDirs)
	}
	if cfg.SystemPath != "/usr/bin:/bin" {
		t.Errorf("SystemPath = %q", cfg.SystemPath)
	}
	if cfg.SigningEnabled() {
		t.Error("SigningEnabled() = true, want false")
	}
	if cfg.Signing.Identity != "Developer ID Application: Example" {
		t.Errorf("Signing.Identity = %q", cfg.Signing.Identity)
	}
	if !cfg.Signing.Required {
		t.Error("Signing.Required = false, want true")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadFromBytes_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("{}"))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	if cfg.Strategy != "script" {
		t.Errorf("default Strategy = %q, want script", cfg.Strategy)
	}
	if cfg.Interpreter != "/bin/sh" {
		t.Errorf("default Interpreter = %q, want /bin/sh", cfg.Interpreter)
	}
	wantProfiles := []string{".zshenv", ".zprofile", ".bash_profile", ".profile"}
	if len(cfg.Profiles) != len(wantProfiles) {
		t.Fatalf("default Profiles = %v", cfg.Profiles)
	}
	for i, p := range wantProfiles {
		if cfg.Profiles[i] != p {
			t.Errorf("default Profiles[%d] = %q, want %q", i, cfg.Profiles[i], p)
		}
	}
	wantDirs := []string{"/opt/homebrew/bin", "/usr/local/bin", "/opt/local/bin"}
	if len(cfg.PackageDirs) != len(wantDirs) {
		t.Fatalf("default PackageDirs = %v", cfg.PackageDirs)
	}
	for i, d := range wantDirs {
		if cfg.PackageDirs[i] != d {
			t.Errorf("default PackageDirs[%d] = %q, want %q", i, cfg.PackageDirs[i], d)
		}
	}
	if cfg.SystemPath != "/usr/bin:/bin:/usr/sbin:/sbin" {
		t.Errorf("default SystemPath = %q", cfg.SystemPath)
	}
	if !cfg.SigningEnabled() {
		t.Error("signing should default to enabled")
	}
	if cfg.Signing.Identity != "-" {
		t.Errorf("default Signing.Identity = %q, want -", cfg.Signing.Identity)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("default Logging = %+v", cfg.Logging)
	}
}

func TestLoadFromBytes_EmptyListsStayEmpty(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("profiles: []\npackage_dirs: []\n"))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if len(cfg.Profiles) != 0 {
		t.Errorf("explicit empty profiles replaced by defaults: %v", cfg.Profiles)
	}
	if len(cfg.PackageDirs) != 0 {
		t.Errorf("explicit empty package_dirs replaced by defaults: %v", cfg.PackageDirs)
	}
}

func TestLoadFromBytes_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad strategy", "strategy: zsh-only\n", "invalid strategy"},
		{"relative interpreter", "interpreter: sh\n", "must be an absolute path"},
		{"empty profile", "profiles:\n  - \"\"\n", "empty entries"},
		{"relative package dir", "package_dirs:\n  - bin\n", "must be absolute"},
		{"bad exclude pattern", "exclude:\n  - \"[\"\n", "invalid exclude pattern"},
		{"bad log level", "logging:\n  level: loud\n", "invalid logging.level"},
		{"bad log format", "logging:\n  format: xml\n", "invalid logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(cfgPath, []byte("strategy: script\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LAUNCHWRAP_STRATEGY", "compiled")
	t.Setenv("LAUNCHWRAP_SIGNING_IDENTITY", "Developer ID")
	t.Setenv("LAUNCHWRAP_LOG_LEVEL", "warn")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strategy != "compiled" {
		t.Errorf("Strategy = %q, want env override compiled", cfg.Strategy)
	}
	if cfg.Signing.Identity != "Developer ID" {
		t.Errorf("Signing.Identity = %q, want env override", cfg.Signing.Identity)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want env override warn", cfg.Logging.Level)
	}
}

func TestExcludeGlobs_Matching(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
exclude:
  - "/Applications/Xcode*.app"
  - "/System/**"
`))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	globs, err := cfg.ExcludeGlobs()
	if err != nil {
		t.Fatalf("ExcludeGlobs: %v", err)
	}

	matches := func(path string) bool {
		for _, g := range globs {
			if g.Match(path) {
				return true
			}
		}
		return false
	}

	if !matches("/Applications/Xcode-beta.app") {
		t.Error("Xcode-beta.app should be excluded")
	}
	if !matches("/System/Applications/Mail.app") {
		t.Error("paths under /System should be excluded")
	}
	if matches("/Applications/MyApp.app") {
		t.Error("MyApp.app should not be excluded")
	}
}

func TestLauncherConfig_CarriesFields(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
interpreter: /bin/bash
profiles:
  - .profile
package_dirs:
  - /opt/homebrew/bin
system_path: /usr/bin:/bin
`))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	lc := cfg.LauncherConfig("MyApp.real")
	if lc.RealName != "MyApp.real" {
		t.Errorf("RealName = %q", lc.RealName)
	}
	if lc.Interpreter != "/bin/bash" {
		t.Errorf("Interpreter = %q", lc.Interpreter)
	}
	if len(lc.Profiles) != 1 || lc.Profiles[0] != ".profile" {
		t.Errorf("Profiles = %v", lc.Profiles)
	}
	if len(lc.PackageDirs) != 1 || lc.PackageDirs[0] != "/opt/homebrew/bin" {
		t.Errorf("PackageDirs = %v", lc.PackageDirs)
	}
	if lc.SystemPath != "/usr/bin:/bin" {
		t.Errorf("SystemPath = %q", lc.SystemPath)
	}
}
