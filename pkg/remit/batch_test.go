package remit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.835", sampleDocument)
	writeFile(t, dir, "b.DAT", sampleDocument)
	writeFile(t, dir, "notes.md", "not a remittance")
	nested := filepath.Join(dir, "nested")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, nested, "c.txt", sampleDocument)

	paths, err := DiscoverFiles(dir)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v, want 3 entries", paths)
	}
	for _, p := range paths {
		if filepath.Ext(p) == ".md" {
			t.Errorf("markdown file discovered: %s", p)
		}
	}
}

func TestParseDirIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.txt", "ZZZ*garbage~")
	writeFile(t, dir, "good.835", sampleDocument)

	results, err := ParseDir(context.Background(), dir, BatchOptions{Workers: 2})
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	byName := map[string]FileResult{}
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r
	}
	if byName["bad.txt"].Err == nil {
		t.Error("bad file should fail")
	}
	good := byName["good.835"]
	if good.Err != nil || good.Document == nil {
		t.Fatalf("good file: %+v", good)
	}
	if good.Document.ServiceCount() != 3 {
		t.Errorf("service count = %d", good.Document.ServiceCount())
	}
}

func TestParseFilesCancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.835", sampleDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := ParseFiles(ctx, []string{path, path, path}, BatchOptions{Workers: 1})
	cancelled := 0
	for _, r := range results {
		if r.Err == context.Canceled {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("expected at least one cancelled result")
	}
}
