package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsvm.yaml")
	if err := os.WriteFile(path, []byte("recursionCap: 64\ndebugBufferSize: 8\ndebugDropOldest: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RecursionCap != 64 || cfg.DebugBufferSize != 8 || !cfg.DebugDropOldest {
		t.Errorf("cfg = %+v, want {64 8 true}", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error reading a missing config file")
	}
}

func TestWithConfigFileAppliesDebugBufferSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsvm.yaml")
	if err := os.WriteFile(path, []byte("debugBufferSize: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := New(WithConfigFile(path))
	defer e.Dispose()

	res := e.Eval(`__debug(1); __debug(2);`, "t.js")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	count := 0
	for {
		if _, ok := e.TryReadDebug(); !ok {
			break
		}
		count++
	}
	if count != 1 {
		t.Errorf("buffered debug message count = %d, want 1 from the YAML-configured buffer size", count)
	}
}

func TestWithConfigFileIgnoresMissingFile(t *testing.T) {
	e := New(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	defer e.Dispose()

	res := e.Eval("1 + 1", "t.js")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
}
