package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Note is one immutable entry of a lead's audit trail.
type Note struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	Text         string
	Status       string
	FollowUpDate *time.Time
	FollowUpTime string
	UpdatedBy    string
	Reason       string
	CreatedAt    time.Time
}

type AppendNoteParams struct {
	Text         string
	Status       string
	FollowUpDate *time.Time
	FollowUpTime string
	UpdatedBy    string
	Reason       string
}

const noteColumns = `id, lead_id, text, status, follow_up_date, follow_up_time, updated_by, reason, created_at`

func appendNoteTx(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, params AppendNoteParams) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO lead_notes (lead_id, text, status, follow_up_date, follow_up_time, updated_by, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, leadID, params.Text, params.Status, params.FollowUpDate, params.FollowUpTime, params.UpdatedBy, params.Reason)
	return err
}

// AppendNote adds a free-standing note outside of a status transition.
func (r *Repository) AppendNote(ctx context.Context, leadID uuid.UUID, params AppendNoteParams) (Note, error) {
	var note Note
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_notes (lead_id, text, status, follow_up_date, follow_up_time, updated_by, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+noteColumns,
		leadID, params.Text, params.Status, params.FollowUpDate, params.FollowUpTime, params.UpdatedBy, params.Reason,
	).Scan(
		&note.ID, &note.LeadID, &note.Text, &note.Status, &note.FollowUpDate, &note.FollowUpTime,
		&note.UpdatedBy, &note.Reason, &note.CreatedAt,
	)
	if err != nil {
		return Note{}, err
	}
	return note, nil
}

// ListNotes returns a lead's notes in chronological (insertion) order.
func (r *Repository) ListNotes(ctx context.Context, leadID uuid.UUID) ([]Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteColumns+` FROM lead_notes WHERE lead_id = $1 ORDER BY created_at ASC, id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]Note, 0)
	for rows.Next() {
		var note Note
		err := rows.Scan(
			&note.ID, &note.LeadID, &note.Text, &note.Status, &note.FollowUpDate, &note.FollowUpTime,
			&note.UpdatedBy, &note.Reason, &note.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// CountNotes returns the number of notes for each of the given leads.
func (r *Repository) CountNotes(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lead_id, COUNT(*) FROM lead_notes WHERE lead_id = ANY($1) GROUP BY lead_id
	`, leadIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int, len(leadIDs))
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}

	return counts, rows.Err()
}
