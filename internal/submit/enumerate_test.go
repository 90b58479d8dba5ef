package submit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnumerate_OnlyNZBFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.nzb", "B.NZB", "c.nzb.part", "d.txt", "nzb", "e.Nzb"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.nzb"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	got, err := Enumerate(dir)
	if err != nil {
		t.Fatalf("Enumerate returned error: %v", err)
	}

	want := map[string]bool{"a.nzb": true, "B.NZB": true, "e.Nzb": true}
	if len(got) != len(want) {
		t.Fatalf("Enumerate = %v, want %d entries", got, len(want))
	}
	for _, path := range got {
		if filepath.Dir(path) != dir {
			t.Fatalf("Enumerate path %q not inside %q", path, dir)
		}
		if !want[filepath.Base(path)] {
			t.Fatalf("Enumerate included %q", path)
		}
	}
}

func TestEnumerate_EmptyDirectory(t *testing.T) {
	got, err := Enumerate(t.TempDir())
	if err != nil {
		t.Fatalf("Enumerate returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Enumerate = %v, want empty", got)
	}
}

func TestEnumerate_MissingDirectory(t *testing.T) {
	if _, err := Enumerate(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("Enumerate returned nil error, want error")
	}
}
