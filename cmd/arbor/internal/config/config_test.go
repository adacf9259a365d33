package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOptional_Defaults(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Errorf("Level = %v", cfg.Level())
	}
}

func TestLoad(t *testing.T) {
	want := &Config{
		Schema: SchemaConfig{Version: "v1.2.0"},
		Engine: EngineConfig{Width: 640, Height: 240, LogLevel: "debug"},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "arbor.yaml",
			content: `schema:
  version: "1.2"
engine:
  width: 640
  log_level: debug
`,
		},
		{
			name: "toml",
			file: "arbor.toml",
			content: `[schema]
version = "v1.2.0"

[engine]
width = 640.0
log_level = "debug"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)
			cfg, err := LoadOptional(dir)
			if err != nil {
				t.Fatalf("LoadOptional: %v", err)
			}
			if diff := cmp.Diff(want, cfg, cmpopts.IgnoreFields(Config{}, "Path")); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			if cfg.Path != filepath.Join(dir, tt.file) {
				t.Errorf("Path = %q", cfg.Path)
			}
			if cfg.Level() != zerolog.DebugLevel {
				t.Errorf("Level = %v", cfg.Level())
			}
		})
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"future major", "arbor.yaml", "schema:\n  version: v2.0.0\n", "not supported"},
		{"not semver", "arbor.yaml", "schema:\n  version: latest\n", "not a semantic version"},
		{"missing version", "arbor.toml", "[schema]\nversion = \"\"\n", "required"},
		{"zero width", "arbor.yaml", "engine:\n  width: 0\n", "positive"},
		{"bad level", "arbor.toml", "[engine]\nlog_level = \"loud\"\n", "log_level"},
		{"malformed", "arbor.yaml", "schema: [", "failed to parse"},
		{"unknown format", "arbor.json", "{}", "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
