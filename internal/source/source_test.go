package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListSource(t *testing.T) {
	src := NewListSource("LAFD 021", "  ", " E12 ")
	if src.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", src.Count())
	}
	got, err := All(src)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "LAFD 021" || got[1] != "E12" {
		t.Errorf("labels = %q", got)
	}
	if _, err := src.Label(2); err == nil {
		t.Error("expected out of range error")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	content := "# units\nLAFD 021\n\nE12\n  # spare\nT 7\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	got, err := All(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"LAFD 021", "E12", "T 7"}
	if len(got) != len(want) {
		t.Fatalf("labels = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
