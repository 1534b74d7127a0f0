package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var tmp []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			tmp = append(tmp, e.Name())
		}
	}
	return tmp
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "frame.png")

	for _, content := range []string{"first", "second"} {
		if err := WriteFile(path, []byte(content)); err != nil {
			t.Fatalf("WriteFile(%q) error = %v", content, err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != content {
			t.Errorf("content = %q, want %q", got, content)
		}
	}
	if tmp := tempEntries(t, filepath.Dir(path)); len(tmp) > 0 {
		t.Errorf("temp files left behind: %v", tmp)
	}
}

func TestWriteFileRenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	// A non-empty directory cannot be replaced by a file.
	if err := os.MkdirAll(filepath.Join(path, "occupied"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, []byte("png")); err == nil {
		t.Fatal("WriteFile() over a directory succeeded")
	}
	if tmp := tempEntries(t, dir); len(tmp) > 0 {
		t.Errorf("temp files left behind: %v", tmp)
	}
}

func TestStage(t *testing.T) {
	dir := t.TempDir()
	path, err := Stage(dir, ".json", []byte(`{"objects":[]}`))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, ".json") {
		t.Errorf("Stage() path = %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != `{"objects":[]}` {
		t.Errorf("staged content = %q, %v", got, err)
	}

	if _, err := Stage(filepath.Join(dir, "missing"), ".json", nil); err == nil {
		t.Error("Stage() into a missing directory succeeded")
	}
}
