package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/catalog"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()
	c := catalog.Default()
	if len(c.List()) != 5 {
		t.Fatalf("expected 5 built-in templates, got %d", len(c.List()))
	}

	tmpl, ok := c.Get("sugar_reduction")
	if !ok {
		t.Fatal("expected sugar_reduction template")
	}
	if tmpl.SuggestedDurationDays != 21 {
		t.Fatalf("expected suggested duration 21, got %d", tmpl.SuggestedDurationDays)
	}
	if len(tmpl.Guidelines) == 0 || len(tmpl.RiskNotes) == 0 {
		t.Fatal("expected guidelines and risk notes on built-in templates")
	}

	if _, ok := c.Get("nope"); ok {
		t.Fatal("expected lookup miss for unknown key")
	}
}

func TestListPreservesOrder(t *testing.T) {
	t.Parallel()
	c := catalog.Default()
	list := c.List()
	if list[0].Key != "sugar_reduction" || list[len(list)-1].Key != "screen_time" {
		t.Fatalf("unexpected catalog order: first %s, last %s", list[0].Key, list[len(list)-1].Key)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	doc := `templates:
  - key: dry_january
    name: Dry January
    suggested_duration_days: 31
    risk_notes:
      - Social pressure peaks at weekends
    guidelines:
      - Stock alcohol-free alternatives
  - key: late_snacking
    name: Late Snacking
    suggested_duration_days: 14
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}

	c, err := catalog.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(c.List()) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(c.List()))
	}
	tmpl, ok := c.Get("dry_january")
	if !ok {
		t.Fatal("expected dry_january template")
	}
	if tmpl.SuggestedDurationDays != 31 {
		t.Fatalf("expected duration 31, got %d", tmpl.SuggestedDurationDays)
	}
	if len(tmpl.RiskNotes) != 1 || len(tmpl.Guidelines) != 1 {
		t.Fatalf("expected lists to round-trip, got %d notes and %d guidelines", len(tmpl.RiskNotes), len(tmpl.Guidelines))
	}
}

func TestLoadFileRejectsBadCatalogs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("templates: []\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := catalog.LoadFile(empty); err == nil {
		t.Fatal("expected error for empty catalog")
	}

	missingDuration := filepath.Join(dir, "bad.yaml")
	doc := "templates:\n  - key: broken\n    name: Broken\n"
	if err := os.WriteFile(missingDuration, []byte(doc), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := catalog.LoadFile(missingDuration); err == nil {
		t.Fatal("expected error for template without duration")
	}

	if _, err := catalog.LoadFile(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
