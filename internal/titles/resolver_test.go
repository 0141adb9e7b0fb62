package titles

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewResolver(t *testing.T) {
	resolver := NewResolver(map[string][]string{
		"Водитель":    {"Водитель-курьер", " Водитель такси ", ""},
		"Программист": {"Разработчик", "Водитель-курьер"},
	})

	if got := resolver.Resolve("Водитель такси"); got != "Водитель" {
		t.Fatalf("expected canonical Водитель, got %q", got)
	}

	// A synonym listed under two canonical titles keeps its first
	// assignment.
	got := resolver.Resolve("Водитель-курьер")
	if got != "Водитель" && got != "Программист" {
		t.Fatalf("expected one of the canonical titles, got %q", got)
	}

	if resolver.Len() != 3 {
		t.Fatalf("expected 3 synonyms, got %d", resolver.Len())
	}
}

func TestResolvePassthrough(t *testing.T) {
	resolver := NewResolver(map[string][]string{"Водитель": {"Шофер"}})

	if got := resolver.Resolve("Грузчик"); got != "Грузчик" {
		t.Fatalf("unknown title must pass through, got %q", got)
	}
	if got := resolver.Resolve("  Шофер  "); got != "Водитель" {
		t.Fatalf("synonym lookup must trim, got %q", got)
	}
}

func TestResolveEmptyMapping(t *testing.T) {
	resolver := NewResolver(nil)
	if got := resolver.Resolve("Водитель"); got != "Водитель" {
		t.Fatalf("empty resolver must pass through, got %q", got)
	}
}

func TestLoadResolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.json")
	content := `{"Водитель": ["Шофер", "Водитель-курьер"]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	resolver, err := LoadResolver(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resolver.Resolve("Шофер"); got != "Водитель" {
		t.Fatalf("expected Водитель, got %q", got)
	}

	if _, err := LoadResolver(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
