package courses

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"learnpath-backend/internal/shared/storage/object/local"
)

func TestImporterUpsertsValidEntriesAndSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	payload := `[
  {"id": "c1", "title": "Intro to SQL", "category": "Data", "difficulty": "beginner", "tags": ["sql", " "], "rating": 4.5, "studentCount": 900, "published": true},
  {"id": "c2", "title": "Broken", "rating": 7},
  {"id": "", "title": "No id"},
  {"id": "c3", "title": "Unknown level", "difficulty": "guru"},
  {"id": "c4", "title": "No level", "published": true}
]`
	if err := os.MkdirAll(filepath.Join(dir, "catalog"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "catalog", "courses.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	repo := NewMemoryRepo()
	im := &Importer{Store: local.New(dir), Repo: repo}
	result, err := im.Import(context.Background(), "catalog/courses.json")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 3 || len(result.Errors) != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	list, err := repo.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 published courses, got %d", len(list))
	}
	if *list[0].Difficulty != LevelBeginner || len(list[0].Tags) != 1 {
		t.Fatalf("expected canonical difficulty and trimmed tags: %+v", list[0])
	}
	if list[1].Difficulty != nil {
		t.Fatalf("expected missing difficulty to stay unset")
	}
}

func TestImporterMissingObject(t *testing.T) {
	im := &Importer{Store: local.New(t.TempDir()), Repo: NewMemoryRepo()}
	if _, err := im.Import(context.Background(), "missing.json"); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}

func TestExportRoundTripsThroughStore(t *testing.T) {
	dir := t.TempDir()
	src := NewMemoryRepo(
		Course{ID: "c1", Title: "Go", Published: true, Difficulty: Difficulty(LevelAdvanced)},
		Course{ID: "c2", Title: "Hidden", Published: false},
	)
	store := local.New(dir)
	n, err := (&Importer{Store: store, Repo: src}).Export(context.Background(), "export.json")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 exported course, got %d", n)
	}

	dst := NewMemoryRepo()
	result, err := (&Importer{Store: store, Repo: dst}).Import(context.Background(), "export.json")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("unexpected import result: %+v", result)
	}
}

func TestNormalizeCourseRejectsNegativeStudents(t *testing.T) {
	_, err := normalizeCourse(Course{ID: "x", Title: "t", StudentCount: -1})
	if !errors.Is(err, ErrInvalidCourse) {
		t.Fatalf("expected ErrInvalidCourse, got %v", err)
	}
}
