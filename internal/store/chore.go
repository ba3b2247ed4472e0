package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hamaluik/chordle/internal/interval"
	"github.com/hamaluik/chordle/internal/model"
)

// ChoreStore is the source of truth for chores. Intervals are persisted in
// their textual form; a stored value that no longer parses fails the whole
// read rather than yielding a partial listing.
type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var rawInterval string

	if err := scanner.Scan(&c.ID, &c.Name, &rawInterval); err != nil {
		return nil, err
	}

	iv, err := interval.Parse(rawInterval)
	if err != nil {
		return nil, fmt.Errorf("chore %d: %w", c.ID, err)
	}
	c.Interval = iv
	return &c, nil
}

const choreCols = `id, name, interval`

// Create inserts a chore and returns its newly assigned id.
func (s *ChoreStore) Create(name string, iv interval.Interval) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO chores (name, interval) VALUES (?, ?)`,
		name, iv.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

// Update replaces a chore's name and interval. Updating an id that does not
// exist is a silent no-op.
func (s *ChoreStore) Update(chore model.Chore) error {
	_, err := s.db.Exec(
		`UPDATE chores SET name = ?, interval = ? WHERE id = ?`,
		chore.Name, chore.Interval.String(), chore.ID,
	)
	if err != nil {
		return fmt.Errorf("update chore: %w", err)
	}
	return nil
}

// Delete removes the chore row only. Its events are kept so history (and
// undo of an old completion) survives deletion.
func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

// List returns all chores ordered by name ascending.
func (s *ChoreStore) List() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT ` + choreCols + ` FROM chores ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// ListWithLastCompletion left-joins each chore to the maximum timestamp
// among its events. Chores that have never been completed get a nil
// LastCompletion. No ordering is guaranteed; the scheduler orders for
// display.
func (s *ChoreStore) ListWithLastCompletion() ([]model.ChoreWithLastCompletion, error) {
	rows, err := s.db.Query(`
		SELECT chores.id, chores.name, chores.interval, MAX(events.timestamp)
		FROM chores
		LEFT JOIN events ON events.chore_id = chores.id
		GROUP BY chores.id, chores.name, chores.interval`)
	if err != nil {
		return nil, fmt.Errorf("list chores with last completion: %w", err)
	}
	defer rows.Close()

	var chores []model.ChoreWithLastCompletion
	for rows.Next() {
		var c model.ChoreWithLastCompletion
		var rawInterval string
		var rawTimestamp sql.NullString

		if err := rows.Scan(&c.ID, &c.Name, &rawInterval, &rawTimestamp); err != nil {
			return nil, fmt.Errorf("scan chore with last completion: %w", err)
		}

		iv, err := interval.Parse(rawInterval)
		if err != nil {
			return nil, fmt.Errorf("chore %d: %w", c.ID, err)
		}
		c.Interval = iv

		if rawTimestamp.Valid {
			ts, err := time.Parse(time.RFC3339Nano, rawTimestamp.String)
			if err != nil {
				return nil, fmt.Errorf("chore %d: parse timestamp %q: %w", c.ID, rawTimestamp.String, err)
			}
			c.LastCompletion = &ts
		}
		chores = append(chores, c)
	}
	return chores, rows.Err()
}
