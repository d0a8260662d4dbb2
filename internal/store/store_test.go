package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "modelcheck.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)

	run := Run{
		ID:            uuid.NewString(),
		ProjectKey:    "shop",
		Timestamp:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ModelCount:    3,
		PassCount:     2,
		DeferralCount: 1,
		InjectedCount: 7,
	}
	symbols := []InjectedSymbol{
		{RunID: run.ID, ModelFullname: "myapp.models.Author", Name: "id",
			Type: "django.db.models.fields.AutoField[builtins.int, builtins.int]", Injector: "primary_key"},
		{RunID: run.ID, ModelFullname: "myapp.models.Book", Name: "author_id",
			Type: "builtins.int", Injector: "related_id"},
	}
	if err := s.SaveRun(run, symbols); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := s.Runs("shop", 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.ModelCount != 3 || got.PassCount != 2 ||
		got.DeferralCount != 1 || got.InjectedCount != 7 {
		t.Errorf("run = %+v", got)
	}
	if !got.Timestamp.Equal(run.Timestamp) {
		t.Errorf("Timestamp = %v", got.Timestamp)
	}
}

func TestSaveRunRequiresID(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveRun(Run{}, nil); err == nil {
		t.Error("expected error for missing run id")
	}
}

func TestSymbolsForRun(t *testing.T) {
	s := openTestStore(t)

	runID := uuid.NewString()
	symbols := []InjectedSymbol{
		{RunID: runID, ModelFullname: "myapp.models.Book", Name: "objects",
			Type: "django.db.models.manager.Manager[myapp.models.Book]", Injector: "managers"},
		{RunID: runID, ModelFullname: "myapp.models.Author", Name: "id",
			Type: "builtins.int", Injector: "primary_key"},
	}
	if err := s.SaveRun(Run{ID: runID}, symbols); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	loaded, err := s.SymbolsForRun(runID)
	if err != nil {
		t.Fatalf("SymbolsForRun: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(loaded))
	}
	// Ordered by model fullname, then symbol name.
	if loaded[0].ModelFullname != "myapp.models.Author" || loaded[1].Name != "objects" {
		t.Errorf("symbols = %+v", loaded)
	}
}

func TestRunsNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		id := uuid.NewString()
		ids = append(ids, id)
		run := Run{ID: id, Timestamp: base.Add(time.Duration(i) * time.Hour)}
		if err := s.SaveRun(run, nil); err != nil {
			t.Fatalf("SaveRun %d: %v", i, err)
		}
	}

	runs, err := s.Runs("default", 2)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("order = %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestSymbolHistoryAcrossRuns(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	firstRun := uuid.NewString()
	secondRun := uuid.NewString()

	if err := s.SaveRun(Run{ID: firstRun, Timestamp: base}, []InjectedSymbol{
		{RunID: firstRun, ModelFullname: "myapp.models.Author", Name: "id",
			Type: "builtins.int", Injector: "primary_key"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(Run{ID: secondRun, Timestamp: base.Add(time.Hour)}, []InjectedSymbol{
		{RunID: secondRun, ModelFullname: "myapp.models.Author", Name: "id",
			Type: "builtins.str", Injector: "primary_key"},
	}); err != nil {
		t.Fatal(err)
	}

	history, err := s.SymbolHistory("myapp.models.Author", 0)
	if err != nil {
		t.Fatalf("SymbolHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].RunID != secondRun || history[0].Type != "builtins.str" {
		t.Errorf("newest entry = %+v", history[0])
	}
}
