package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/hamaluik/chordle/internal/database"
	"github.com/hamaluik/chordle/internal/interval"
	"github.com/hamaluik/chordle/internal/model"
)

func setupTestDB(t *testing.T) (*sql.DB, *ChoreStore, *EventStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, NewChoreStore(db), NewEventStore(db)
}

func mustInterval(t *testing.T, s string) interval.Interval {
	t.Helper()
	iv, err := interval.Parse(s)
	if err != nil {
		t.Fatalf("parse interval %q: %v", s, err)
	}
	return iv
}

func TestChoreCRUD(t *testing.T) {
	_, cs, _ := setupTestDB(t)

	id, err := cs.Create("Wash dishes", mustInterval(t, "P1D"))
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want positive", id)
	}

	got, err := cs.GetByID(id)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got.Name != "Wash dishes" {
		t.Errorf("name = %q, want %q", got.Name, "Wash dishes")
	}
	if got.Interval.String() != "P1D" {
		t.Errorf("interval = %q, want %q", got.Interval.String(), "P1D")
	}

	updated := model.Chore{ID: id, Name: "Wash all dishes", Interval: mustInterval(t, "P2D")}
	if err := cs.Update(updated); err != nil {
		t.Fatalf("update chore: %v", err)
	}
	got, err = cs.GetByID(id)
	if err != nil {
		t.Fatalf("get updated chore: %v", err)
	}
	if got.Name != "Wash all dishes" {
		t.Errorf("updated name = %q, want %q", got.Name, "Wash all dishes")
	}
	if got.Interval.String() != "P2D" {
		t.Errorf("updated interval = %q, want %q", got.Interval.String(), "P2D")
	}

	if err := cs.Delete(id); err != nil {
		t.Fatalf("delete chore: %v", err)
	}
	got, err = cs.GetByID(id)
	if err != nil {
		t.Fatalf("get deleted chore: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted chore")
	}
}

func TestChoreGetByIDNotFound(t *testing.T) {
	_, cs, _ := setupTestDB(t)

	got, err := cs.GetByID(9999)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent chore")
	}
}

func TestChoreIDsNeverReused(t *testing.T) {
	_, cs, _ := setupTestDB(t)

	first, err := cs.Create("Dust shelves", mustInterval(t, "P1W"))
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if err := cs.Delete(first); err != nil {
		t.Fatalf("delete chore: %v", err)
	}

	second, err := cs.Create("Mop floor", mustInterval(t, "P1W"))
	if err != nil {
		t.Fatalf("create second chore: %v", err)
	}
	if second <= first {
		t.Errorf("second id %d should be greater than deleted id %d", second, first)
	}
}

func TestUpdateMissingIDIsSilentNoOp(t *testing.T) {
	_, cs, _ := setupTestDB(t)

	err := cs.Update(model.Chore{ID: 424242, Name: "Ghost", Interval: mustInterval(t, "P1W")})
	if err != nil {
		t.Fatalf("update of missing chore should be a no-op, got %v", err)
	}
}

func TestListOrderedByName(t *testing.T) {
	_, cs, _ := setupTestDB(t)

	for _, name := range []string{"Vacuum", "Dishes", "Laundry"} {
		if _, err := cs.Create(name, mustInterval(t, "P1W")); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	chores, err := cs.List()
	if err != nil {
		t.Fatalf("list chores: %v", err)
	}
	want := []string{"Dishes", "Laundry", "Vacuum"}
	if len(chores) != len(want) {
		t.Fatalf("got %d chores, want %d", len(chores), len(want))
	}
	for i, name := range want {
		if chores[i].Name != name {
			t.Errorf("chores[%d].Name = %q, want %q", i, chores[i].Name, name)
		}
	}
}

func TestListWithLastCompletion(t *testing.T) {
	_, cs, es := setupTestDB(t)

	doneID, err := cs.Create("Dishes", mustInterval(t, "P1D"))
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	neverID, err := cs.Create("Windows", mustInterval(t, "P1M"))
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}

	older := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{older, newer} {
		if err := es.Record(doneID, ts); err != nil {
			t.Fatalf("record event: %v", err)
		}
	}

	chores, err := cs.ListWithLastCompletion()
	if err != nil {
		t.Fatalf("list with last completion: %v", err)
	}
	if len(chores) != 2 {
		t.Fatalf("got %d chores, want 2", len(chores))
	}

	byID := map[int64]model.ChoreWithLastCompletion{}
	for _, c := range chores {
		byID[c.ID] = c
	}

	done := byID[doneID]
	if done.LastCompletion == nil {
		t.Fatal("completed chore should have a last completion")
	}
	if !done.LastCompletion.Equal(newer) {
		t.Errorf("last completion = %v, want %v", done.LastCompletion, newer)
	}

	never := byID[neverID]
	if never.LastCompletion != nil {
		t.Errorf("never-completed chore should have nil last completion, got %v", never.LastCompletion)
	}
}

func TestDeleteChoreKeepsEvents(t *testing.T) {
	_, cs, es := setupTestDB(t)

	id, err := cs.Create("Clean gutters", mustInterval(t, "P1M"))
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if err := es.Record(id, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("record event: %v", err)
	}
	if err := cs.Delete(id); err != nil {
		t.Fatalf("delete chore: %v", err)
	}

	events, err := es.ListByChore(id)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("events should survive chore deletion, got %d", len(events))
	}
}

func TestListFailsFastOnBadInterval(t *testing.T) {
	db, cs, _ := setupTestDB(t)

	if _, err := cs.Create("Good chore", mustInterval(t, "P1W")); err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO chores (name, interval) VALUES ('Bad chore', 'not a duration')`); err != nil {
		t.Fatalf("insert bad row: %v", err)
	}

	if _, err := cs.List(); err == nil {
		t.Error("list should fail when a stored interval does not parse")
	}
	if _, err := cs.ListWithLastCompletion(); err == nil {
		t.Error("list with last completion should fail when a stored interval does not parse")
	}
}
