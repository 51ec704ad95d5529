package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScripts(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0644); err != nil {
			t.Fatalf("failed to write script %s: %v", name, err)
		}
	}
}

func TestDiscoverScripts_SortedByIndex(t *testing.T) {
	dir := t.TempDir()
	writeScripts(t, dir, "10_ten.sql", "2_two.sql", "1_one.sql")

	scripts, err := discoverScripts(dir)
	if err != nil {
		t.Fatalf("discoverScripts() failed: %v", err)
	}

	want := []string{"1_one.sql", "2_two.sql", "10_ten.sql"}
	if len(scripts) != len(want) {
		t.Fatalf("discoverScripts() returned %d scripts, want %d", len(scripts), len(want))
	}
	for i, name := range want {
		if scripts[i].Name != name {
			t.Errorf("scripts[%d].Name = %q, want %q", i, scripts[i].Name, name)
		}
	}
}

func TestDiscoverScripts_IgnoresNonSQL(t *testing.T) {
	dir := t.TempDir()
	writeScripts(t, dir, "1_one.sql")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	scripts, err := discoverScripts(dir)
	if err != nil {
		t.Fatalf("discoverScripts() failed: %v", err)
	}
	if len(scripts) != 1 {
		t.Errorf("discoverScripts() returned %d scripts, want 1", len(scripts))
	}
}

func TestDiscoverScripts_NonNumericPrefix(t *testing.T) {
	dir := t.TempDir()
	writeScripts(t, dir, "abc_bad.sql")

	_, err := discoverScripts(dir)
	if err == nil {
		t.Fatal("discoverScripts() should reject a script without a numeric prefix")
	}
	if !strings.Contains(err.Error(), "must start with a number") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDiscoverScripts_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sql")

	scripts, err := discoverScripts(dir)
	if err != nil {
		t.Fatalf("discoverScripts() failed: %v", err)
	}
	if len(scripts) != 0 {
		t.Errorf("discoverScripts() returned %d scripts, want 0", len(scripts))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("migrations directory was not created: %v", err)
	}
}

func TestCreateScript_FirstIndex(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateScript(dir, "init")
	if err != nil {
		t.Fatalf("CreateScript() failed: %v", err)
	}

	if filepath.Base(path) != "1_init.sql" {
		t.Errorf("CreateScript() = %q, want 1_init.sql", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("created script missing: %v", err)
	}
}

func TestCreateScript_NextIndex(t *testing.T) {
	dir := t.TempDir()
	writeScripts(t, dir, "1_one.sql", "4_four.sql")

	path, err := CreateScript(dir, "five")
	if err != nil {
		t.Fatalf("CreateScript() failed: %v", err)
	}

	if filepath.Base(path) != "5_five.sql" {
		t.Errorf("CreateScript() = %q, want 5_five.sql", filepath.Base(path))
	}
}

func TestCreateScript_GeneratedName(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateScript(dir, "")
	if err != nil {
		t.Fatalf("CreateScript() failed: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "1_") || !strings.HasSuffix(base, ".sql") {
		t.Errorf("CreateScript() = %q, want 1_<random>.sql", base)
	}
	// 8 random chars between prefix and extension.
	name := strings.TrimSuffix(strings.TrimPrefix(base, "1_"), ".sql")
	if len(name) != 8 {
		t.Errorf("generated name %q has length %d, want 8", name, len(name))
	}
}

func TestReadScript_Empty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "1_empty.sql"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := readScript(dir, Script{Index: 1, Name: "1_empty.sql"})
	if err == nil {
		t.Fatal("readScript() should reject an empty migration")
	}
	if !strings.Contains(err.Error(), "is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}
