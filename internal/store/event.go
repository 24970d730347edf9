package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DefaultEventLimit caps ListRecent when the caller passes no limit.
const DefaultEventLimit = 50

// Event is one recorded label transition.
type Event struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Fingers     string    `json:"fingers,omitempty"`
	Handedness  string    `json:"handedness,omitempty"`
	Score       float64   `json:"score"`
	ActionID    string    `json:"action_id,omitempty"`
	ActionError string    `json:"action_error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventRepository stores recognition history.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts e, filling ID and CreatedAt when they are zero.
func (r *EventRepository) Create(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	var actionID sql.NullString
	if e.ActionID != "" {
		actionID = sql.NullString{String: e.ActionID, Valid: true}
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, label, fingers, handedness, score, action_id, action_error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Label, e.Fingers, e.Handedness, e.Score, actionID, e.ActionError, e.CreatedAt,
	)
	return translate(err)
}

// ListRecent returns up to limit events, newest first. A non-positive limit
// selects DefaultEventLimit.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	rows, err := r.db.Query(
		`SELECT id, label, fingers, handedness, score, action_id, action_error, created_at
		 FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		e := &Event{}
		var actionID sql.NullString
		if err := rows.Scan(&e.ID, &e.Label, &e.Fingers, &e.Handedness, &e.Score, &actionID, &e.ActionError, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ActionID = actionID.String
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountByLabel returns how many events were recorded per label.
func (r *EventRepository) CountByLabel() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT label, COUNT(*) FROM events GROUP BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}

	return counts, rows.Err()
}

// DeleteBefore removes events older than t and returns how many were removed.
func (r *EventRepository) DeleteBefore(t time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, t.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
