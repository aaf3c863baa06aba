package courses

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoListPublishedScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "category", "difficulty", "tags", "rating",
		"student_count", "trending", "featured", "published", "created_at", "updated_at",
	}).
		AddRow("c1", "Intro to Pandas", "dataframes", "Data Science", "Intermediate", []byte(`["python","pandas"]`), 4.6, 1200, true, false, true, now, now).
		AddRow("c2", "Sketching", "", "Design", nil, []byte(`[]`), 3.9, 10, false, true, true, now, now)

	mock.ExpectQuery(`FROM courses\s+WHERE published = true`).WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(got))
	}
	if got[0].Level() != LevelIntermediate || len(got[0].Tags) != 2 || got[0].Tags[1] != "pandas" {
		t.Fatalf("unexpected first course: %+v", got[0])
	}
	if got[1].Difficulty != nil || got[1].Level() != LevelBeginner {
		t.Fatalf("expected NULL difficulty to default to Beginner: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDsBuildsPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`WHERE id IN \(\$1, \$2\)`).
		WithArgs("c1", "c2").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "category", "difficulty", "tags", "rating",
			"student_count", "trending", "featured", "published", "created_at", "updated_at",
		}))

	repo := &PGRepo{DB: db}
	got, err := repo.GetByIDs(context.Background(), []string{"c1", "c2"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpsertEncodesTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO courses").
		WithArgs("c1", "Intro", "desc", "Data", nil, []byte(`["sql"]`), 4.2, 30, false, false, true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	err = repo.Upsert(context.Background(), Course{
		ID:           "c1",
		Title:        "Intro",
		Description:  "desc",
		Category:     "Data",
		Tags:         []string{"sql"},
		Rating:       4.2,
		StudentCount: 30,
		Published:    true,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
