package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/refinery/internal/config"
	"github.com/funvibe/refinery/internal/pipeline"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_StoreLookup(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	if _, ok, err := c.Lookup(ctx, "k1"); err != nil || ok {
		t.Fatalf("Lookup(empty) = %v, %v", ok, err)
	}

	files := []pipeline.GeneratedFile{
		{Filename: "A.idr", Content: "namespace A\n"},
		{Filename: "refined_a.go", Content: "package refinements\n"},
	}
	if err := c.Store(ctx, "k1", "A", files); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	got, ok, err := c.Lookup(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Lookup() = %v, %v", ok, err)
	}
	if diff := cmp.Diff(files, got); diff != "" {
		t.Errorf("Lookup() mismatch (-want +got):\n%s", diff)
	}

	// Storing again replaces the entry.
	replaced := []pipeline.GeneratedFile{{Filename: "A.idr", Content: "namespace A2\n"}}
	if err := c.Store(ctx, "k1", "A", replaced); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	got, _, _ = c.Lookup(ctx, "k1")
	if diff := cmp.Diff(replaced, got); diff != "" {
		t.Errorf("Lookup() after replace mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_StatsAndClean(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	for i, key := range []string{"a", "b"} {
		files := []pipeline.GeneratedFile{{Filename: key + ".idr", Content: "12345"}}
		if i == 1 {
			files = append(files, pipeline.GeneratedFile{Filename: key + ".go", Content: "xyz"})
		}
		if err := c.Store(ctx, key, key, files); err != nil {
			t.Fatalf("Store(%s) error = %v", key, err)
		}
	}

	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Entries != 2 || st.Files != 3 || st.Bytes != 13 {
		t.Errorf("Stats() = %+v, want 2 entries, 3 files, 13 bytes", st)
	}
	if st.Oldest.IsZero() || st.Newest.Before(st.Oldest) {
		t.Errorf("Stats() times = %v .. %v", st.Oldest, st.Newest)
	}

	n, err := c.Clean(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clean() = %d, %v; want 2", n, err)
	}
	st, err = c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Entries != 0 || st.Files != 0 || !st.Oldest.IsZero() {
		t.Errorf("Stats() after Clean = %+v", st)
	}
}

func TestCache_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Store(ctx, "k", "T", []pipeline.GeneratedFile{{Filename: "T.idr", Content: "x"}}); err != nil {
		t.Fatal(err)
	}
	c.Close()

	c, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok, err := c.Lookup(ctx, "k"); err != nil || !ok {
		t.Errorf("Lookup() after reopen = %v, %v", ok, err)
	}
}

func TestKey(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(`
types:
  - name: A
    constructors: []
  - name: B
    constructors: []
`), "refinery.yaml")
	if err != nil {
		t.Fatal(err)
	}
	key := func(spec *config.TypeSpec, backends ...string) string {
		k, err := Key(cfg, spec, backends)
		if err != nil {
			t.Fatal(err)
		}
		return k
	}

	a := key(&cfg.Types[0], "text")
	if a != key(&cfg.Types[0], "text") {
		t.Error("Key() is not deterministic")
	}
	if a == key(&cfg.Types[1], "text") {
		t.Error("different types share a key")
	}
	if a == key(&cfg.Types[0], "text", "go") {
		t.Error("different backends share a key")
	}

	moved := cfg.Types[0]
	moved.Line, moved.Column = 99, 1
	if a != key(&moved, "text") {
		t.Error("source position changed the key")
	}

	cfg.Package = "other"
	if a == key(&cfg.Types[0], "text") {
		t.Error("package name not part of the key")
	}
}
