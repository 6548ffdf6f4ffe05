package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zachkp/portfolio/data"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.PersistentFlags().Set("content-dir", "")
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func copyEmbedded(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"personal.json", "projects.json", "experience.json", "skills.json"} {
		b, err := data.FS.ReadFile(name)
		if err != nil {
			t.Fatalf("reading embedded %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o600); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

func TestValidateEmbedded(t *testing.T) {
	t.Setenv("CONTENT_DIR", "")
	out, err := runCLI(t, "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "content OK (embedded)") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateDirectory(t *testing.T) {
	dir := copyEmbedded(t)

	out, err := runCLI(t, "validate", "--content-dir", dir)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "content OK ("+dir+")") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "mobile-app") {
		t.Errorf("categories missing from output %q", out)
	}
}

func TestValidateBrokenContent(t *testing.T) {
	dir := copyEmbedded(t)
	dup := `{"projects": [{"id": "x"}, {"id": "x"}]}`
	if err := os.WriteFile(filepath.Join(dir, "projects.json"), []byte(dup), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "validate", "--content-dir", dir)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "duplicate project id") {
		t.Errorf("error = %v", err)
	}
}
