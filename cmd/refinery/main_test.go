package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = `
output: out
types:
  - name: Positive
    strategy: integer
    constructors:
      - name: MkPositive
        args:
          - name: n
            type: Integer
          - name: prf
            type: IsPositive n
    go:
      type: int64
      witness: bool
      decider: positive
  - name: Twice
    constructors:
      - name: MkTwice
        args:
          - name: a
            type: Nat
          - name: b
            type: Nat
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refinery.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDeriveCommand(t *testing.T) {
	path := writeConfig(t)

	stdout, stderr, err := execute(t, "derive", path)
	if !errors.Is(err, errFailed) {
		t.Fatalf("derive error = %v, want errFailed", err)
	}
	if !strings.Contains(stdout, "ok Positive (2 declarations, 2 files)") {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "error: ") || !strings.Contains(stderr, "type Twice") || !strings.Contains(stderr, "1 of 2 types failed") {
		t.Errorf("stderr = %q", stderr)
	}
	if strings.Contains(stderr, "\x1b[") {
		t.Error("colored output written to a non-terminal")
	}

	out := filepath.Join(filepath.Dir(path), "out")
	for _, name := range []string{"Positive.idr", "refined_positive.go"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	// The second run is served from the cache.
	stdout, _, _ = execute(t, "derive", "--config", path)
	if !strings.Contains(stdout, "ok Positive (2 files, cached)") {
		t.Errorf("second run stdout = %q", stdout)
	}

	stdout, _, err = execute(t, "cache", "stats", path)
	if err != nil {
		t.Fatalf("cache stats error = %v", err)
	}
	if !strings.Contains(stdout, "entries: 1") {
		t.Errorf("cache stats stdout = %q", stdout)
	}

	stdout, _, err = execute(t, "cache", "clean", path)
	if err != nil {
		t.Fatalf("cache clean error = %v", err)
	}
	if !strings.Contains(stdout, "removed 1 cached entry") {
		t.Errorf("cache clean stdout = %q", stdout)
	}
}

func TestDeriveCommand_TextOnlyNoCache(t *testing.T) {
	path := writeConfig(t)
	outDir := filepath.Join(t.TempDir(), "gen")

	_, _, err := execute(t, "derive", path, "--format", "text", "--no-cache", "--out", outDir, "-j", "1")
	if !errors.Is(err, errFailed) {
		t.Fatalf("derive error = %v", err)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "Positive.idr" {
		t.Errorf("wrote %v, want only Positive.idr", entries)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), ".refinery")); !os.IsNotExist(err) {
		t.Errorf("--no-cache created a cache (err = %v)", err)
	}
}

func TestDeriveCommand_BadFormat(t *testing.T) {
	_, _, err := execute(t, "derive", writeConfig(t), "--format", "rust", "--no-cache")
	if err == nil || !strings.Contains(err.Error(), `unknown format "rust"`) {
		t.Errorf("error = %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	path := writeConfig(t)
	stdout, stderr, err := execute(t, "check", path)
	if !errors.Is(err, errFailed) {
		t.Fatalf("check error = %v, want errFailed", err)
	}
	if strings.TrimSpace(stdout) != "ok Positive" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "constructor MkTwice is not a refinement") {
		t.Errorf("stderr = %q", stderr)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "out")); !os.IsNotExist(err) {
		t.Error("check wrote output")
	}
}

func TestMissingConfig(t *testing.T) {
	_, _, err := execute(t, "check", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("error = %v", err)
	}
}
