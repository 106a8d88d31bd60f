package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Pipeline.Simplify != 0 {
		t.Errorf("expected simplify 0, got %d", cfg.Pipeline.Simplify)
	}
	if cfg.Pipeline.K != 0.00001 {
		t.Errorf("expected k 0.00001, got %g", cfg.Pipeline.K)
	}
	if cfg.Pipeline.OutputPrefix != "" {
		t.Errorf("expected empty output prefix, got %s", cfg.Pipeline.OutputPrefix)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{"bunny.off"}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Input != "bunny.off" {
		t.Errorf("input = %s, want bunny.off", cfg.Input)
	}
	if cfg.Pipeline.OutputPrefix != "bunny" {
		t.Errorf("output prefix = %s, want bunny (trailing .off stripped)", cfg.Pipeline.OutputPrefix)
	}
	if cfg.Pipeline.K != 0.00001 {
		t.Errorf("k = %g, want default 0.00001", cfg.Pipeline.K)
	}
}

func TestLoadFlagsAfterInput(t *testing.T) {
	cfg, err := Load([]string{"bunny.obj", "-simplify", "100", "-k", "0.5"}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pipeline.Simplify != 100 {
		t.Errorf("simplify = %d, want 100", cfg.Pipeline.Simplify)
	}
	if cfg.Pipeline.K != 0.5 {
		t.Errorf("k = %g, want 0.5", cfg.Pipeline.K)
	}
	// OBJ inputs keep their full path as the prefix.
	if cfg.Pipeline.OutputPrefix != "bunny.obj" {
		t.Errorf("output prefix = %s, want bunny.obj", cfg.Pipeline.OutputPrefix)
	}
}

func TestLoadExplicitOutput(t *testing.T) {
	cfg, err := Load([]string{"-output", "out/result", "bunny.off"}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pipeline.OutputPrefix != "out/result" {
		t.Errorf("output prefix = %s, want out/result", cfg.Pipeline.OutputPrefix)
	}
}

func TestLoadUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{}},
		{"multiple inputs", []string{"a.off", "b.off"}},
		{"unknown flag", []string{"-frobnicate", "a.off"}},
		{"negative simplify", []string{"-simplify", "-5", "a.off"}},
		{"zero k", []string{"-k", "0", "a.off"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args, io.Discard); err == nil {
				t.Fatal("expected a usage error")
			}
		})
	}
}

func TestLoadHelp(t *testing.T) {
	var sb strings.Builder
	_, err := Load([]string{"-help"}, &sb)
	if !errors.Is(err, ErrHelp) {
		t.Fatalf("err = %v, want ErrHelp", err)
	}
	if !strings.Contains(sb.String(), "usage: qmat") {
		t.Errorf("help output missing usage line: %q", sb.String())
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qmat.yaml")

	yamlContent := `
pipeline:
  simplify: 250
  k: 0.01
  output_prefix: "fromfile"

logging:
  level: "debug"
  log_file: "qmat.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load([]string{"-config", configPath, "bunny.off"}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pipeline.Simplify != 250 {
		t.Errorf("simplify = %d, want 250 from file", cfg.Pipeline.Simplify)
	}
	if cfg.Pipeline.OutputPrefix != "fromfile" {
		t.Errorf("output prefix = %s, want fromfile", cfg.Pipeline.OutputPrefix)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qmat.yaml")

	yamlContent := `
pipeline:
  simplify: 250
  k: 0.01
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load([]string{"-config", configPath, "-simplify", "42", "bunny.off"}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// Simplify comes from the flag, k from the file.
	if cfg.Pipeline.Simplify != 42 {
		t.Errorf("simplify = %d, want 42 from flag", cfg.Pipeline.Simplify)
	}
	if cfg.Pipeline.K != 0.01 {
		t.Errorf("k = %g, want 0.01 from file", cfg.Pipeline.K)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qmat.yaml")
	if err := os.WriteFile(configPath, []byte("pipeline:\n  simplify: not a number\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load([]string{"-config", configPath, "bunny.off"}, io.Discard); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
