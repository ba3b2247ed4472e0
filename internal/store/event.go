package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hamaluik/chordle/internal/model"
)

// timeLayout is RFC 3339 with a fixed-width fractional second. Fixed width
// keeps lexicographic ordering of the stored text identical to chronological
// ordering, which MAX(timestamp) and ORDER BY rely on. All values are stored
// in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// EventStore owns the completion ledger: the events table plus the
// redo_events table that holds completions removed by undo. Every operation
// that touches both tables runs in a single transaction, so a concurrent
// reader never sees a completion in both tables or in neither.
type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Record inserts a completion event and drains the redo history. Both steps
// commit together: a new forward action always invalidates pending redos.
func (s *EventStore) Record(choreID int64, timestamp time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO events (chore_id, timestamp) VALUES (?, ?)`,
		choreID, formatTime(timestamp),
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM redo_events`); err != nil {
		return fmt.Errorf("clear redo events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// CanUndo reports whether any completion exists to undo.
func (s *EventStore) CanUndo() (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM events)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("can undo: %w", err)
	}
	return exists, nil
}

// CanRedo reports whether an undone completion is waiting to be redone.
func (s *EventStore) CanRedo() (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM redo_events)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("can redo: %w", err)
	}
	return exists, nil
}

// Undo moves the most recent completion across all chores from events to
// redo_events and returns it. It returns nil (and no error) when there is
// nothing to undo. Duplicate (chore_id, timestamp) pairs are disambiguated
// by rowid: the most recently inserted row moves.
func (s *EventStore) Undo() (*model.Event, error) {
	event, err := s.moveNewest("events", "redo_events")
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	return event, nil
}

// Redo mirrors Undo: it moves the most recent entry from redo_events back
// into events and returns it, or nil when the redo history is empty.
func (s *EventStore) Redo() (*model.Event, error) {
	event, err := s.moveNewest("redo_events", "events")
	if err != nil {
		return nil, fmt.Errorf("redo: %w", err)
	}
	return event, nil
}

// moveNewest transactionally deletes the newest row from one ledger table
// and inserts it into the other. The from/to names are fixed at the two call
// sites, never caller input.
func (s *EventStore) moveNewest(from, to string) (*model.Event, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var rowid int64
	var choreID int64
	var rawTimestamp string
	err = tx.QueryRow(
		`SELECT rowid, chore_id, timestamp FROM `+from+` ORDER BY timestamp DESC, rowid DESC LIMIT 1`,
	).Scan(&rowid, &choreID, &rawTimestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select newest: %w", err)
	}

	// Parse before mutating anything so a malformed stored value rolls the
	// move back instead of failing after commit.
	timestamp, err := parseTime(rawTimestamp)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", rawTimestamp, err)
	}

	if _, err := tx.Exec(`DELETE FROM `+from+` WHERE rowid = ?`, rowid); err != nil {
		return nil, fmt.Errorf("delete from %s: %w", from, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO `+to+` (chore_id, timestamp) VALUES (?, ?)`,
		choreID, rawTimestamp,
	); err != nil {
		return nil, fmt.Errorf("insert into %s: %w", to, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit move: %w", err)
	}
	return &model.Event{ChoreID: choreID, Timestamp: timestamp}, nil
}

// ListByChore returns all completions for one chore, oldest first.
func (s *EventStore) ListByChore(choreID int64) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT chore_id, timestamp FROM events WHERE chore_id = ? ORDER BY timestamp ASC`,
		choreID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var rawTimestamp string
		if err := rows.Scan(&e.ChoreID, &rawTimestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Timestamp, err = parseTime(rawTimestamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", rawTimestamp, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
