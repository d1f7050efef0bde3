package roster

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	return Open(
		filepath.Join(dir, "creators.json"),
		filepath.Join(dir, "briefs.json"),
		filepath.Join(dir, "feedback.json"),
	)
}

func TestFindAllMissingFile(t *testing.T) {
	store := testStore(t)

	creators, err := store.FindAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creators.Len() != 0 {
		t.Fatalf("expected an empty roster, got %d", creators.Len())
	}
}

func TestReplaceAndFindAll(t *testing.T) {
	store := testStore(t)

	roster := &Creators{Items: []*Creator{
		{ID: "c1", Name: "Priya"},
		{ID: "c2", Name: "Arjun"},
	}}
	if err := store.Replace(roster); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.FindAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected two creators, got %d", loaded.Len())
	}
	if loaded.FindByID("c2") == nil {
		t.Fatalf("expected to find c2")
	}
}

func TestSaveUpdatesOnlyEmbeddingFields(t *testing.T) {
	store := testStore(t)

	original := &Creator{ID: "c1", Name: "Priya", Bio: "original bio"}
	if err := store.Replace(&Creators{Items: []*Creator{original}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := &Creator{ID: "c1", Name: "Renamed", Bio: "tampered bio"}
	updated.SetEmbedding([]float32{0.1, 0.2}, time.Now())

	if err := store.Save(updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.FindAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := loaded.FindByID("c1")
	if stored.Name != "Priya" || stored.Bio != "original bio" {
		t.Fatalf("business fields must not change on save: %+v", stored)
	}
	if len(stored.Embedding) != 2 || stored.LastEmbeddingUpdate.IsZero() {
		t.Fatalf("embedding fields must be updated: %+v", stored)
	}
}

func TestSaveUnknownCreator(t *testing.T) {
	store := testStore(t)

	if err := store.Save(&Creator{ID: "ghost"}); err == nil {
		t.Fatalf("expected an error for an unknown creator")
	}
}

func TestSaveBriefAppends(t *testing.T) {
	store := testStore(t)

	for _, title := range []string{"first", "second"} {
		brief := &Brief{ID: title, Title: title, Matches: []BriefMatch{{CreatorID: "c1", Score: 12.5}}}
		if err := store.SaveBrief(brief); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var briefs []*Brief
	if err := readJSON(store.briefsPath, &briefs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(briefs) != 2 {
		t.Fatalf("expected two briefs, got %d", len(briefs))
	}
	if briefs[1].Title != "second" || len(briefs[1].Matches) != 1 {
		t.Fatalf("unexpected second brief: %+v", briefs[1])
	}
}

func TestSaveFeedback(t *testing.T) {
	store := testStore(t)

	valid := &Feedback{ID: "f1", BriefID: "b1", CreatorID: "c1", Rating: 4, Helpful: true, CreatedAt: time.Now()}
	if err := store.SaveFeedback(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invalid := &Feedback{ID: "f2", BriefID: "b1", CreatorID: "c1", Rating: 9}
	if err := store.SaveFeedback(invalid); err == nil {
		t.Fatalf("expected a validation error")
	}

	var records []*Feedback
	if err := readJSON(store.feedbackPath, &records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the valid record, got %d", len(records))
	}
}

func TestSaveFeedbackUnconfiguredPath(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "creators.json"), "", "")

	if err := store.SaveFeedback(&Feedback{BriefID: "b", CreatorID: "c", Rating: 3}); err == nil {
		t.Fatalf("expected an error when the feedback file is not configured")
	}
	if err := store.SaveBrief(&Brief{Title: "t"}); err == nil {
		t.Fatalf("expected an error when the briefs file is not configured")
	}
}

func TestReadJSONEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var briefs []*Brief
	if err := readJSON(path, &briefs); err != nil {
		t.Fatalf("an empty file must read as no data, got %v", err)
	}
	if briefs != nil {
		t.Fatalf("expected no briefs, got %v", briefs)
	}
}
