package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID             uuid.UUID
	LeadName       string
	Phone          string
	AssignedTo     *uuid.UUID
	AssignedToName string
	DateAssigned   *time.Time
	Status         string
	FollowUpDate   *time.Time
	FollowUpTime   string
	Rescheduled    bool
	DateUpdated    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const leadColumns = `id, lead_name, phone, assigned_to, assigned_to_name, date_assigned,
	status, follow_up_date, follow_up_time, rescheduled, date_updated, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.LeadName, &lead.Phone, &lead.AssignedTo, &lead.AssignedToName, &lead.DateAssigned,
		&lead.Status, &lead.FollowUpDate, &lead.FollowUpTime, &lead.Rescheduled, &lead.DateUpdated,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

type CreateLeadParams struct {
	LeadName       string
	Phone          string
	AssignedTo     *uuid.UUID
	AssignedToName string
	DateAssigned   *time.Time
	Status         string
	NoteText       string
	NoteStatus     string
	NoteUpdatedBy  string
}

// Create inserts the lead together with its initial note (when the lead is
// created already assigned) in one transaction. Unassigned creations carry no
// note; the audit trail starts with the first assignment.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, err
	}
	defer tx.Rollback(ctx)

	lead, err := scanLead(tx.QueryRow(ctx, `
		INSERT INTO leads (lead_name, phone, assigned_to, assigned_to_name, date_assigned, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+leadColumns,
		params.LeadName, params.Phone, params.AssignedTo, params.AssignedToName, params.DateAssigned, params.Status,
	))
	if err != nil {
		return Lead{}, err
	}

	if params.NoteStatus != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO lead_notes (lead_id, text, status, follow_up_date, follow_up_time, updated_by, reason)
			VALUES ($1, $2, $3, NULL, '', $4, '')
		`, lead.ID, params.NoteText, params.NoteStatus, params.NoteUpdatedBy)
		if err != nil {
			return Lead{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, err
	}

	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1
	`, id))
}

// GetByPhone finds a lead by canonical phone, regardless of status. Used by
// the duplicate check: an unassigned or dead lead still blocks re-creation.
func (r *Repository) GetByPhone(ctx context.Context, phone string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE phone = $1 LIMIT 1
	`, phone))
}

// RefreshOwnerName rewrites the cached owner display name. The duplicate
// check uses it to heal a blank cache after resolving the directory.
func (r *Repository) RefreshOwnerName(ctx context.Context, id uuid.UUID, name string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET assigned_to_name = $2, updated_at = now() WHERE id = $1
	`, id, name)
	return err
}

type ListParams struct {
	// AssignedTo restricts results to leads owned by any of these members.
	// Nil means no owner filter.
	AssignedTo []uuid.UUID
	// Unassigned selects only leads without an owner. Mutually exclusive
	// with AssignedTo at the service layer.
	Unassigned bool
	// Status filters on an exact status value when non-empty.
	Status string
	// Search matches lead name or phone, case-insensitively.
	Search string
	// AssignedFrom/AssignedTo bound date_assigned when set.
	AssignedFrom *time.Time
	AssignedUpTo *time.Time
	// SortBy is a whitelisted column; empty means created_at.
	SortBy  string
	SortAsc bool
	Limit   int
	Offset  int
}

// sortColumns whitelists ORDER BY targets; user input never reaches SQL
// outside this map.
var sortColumns = map[string]string{
	"created_at":    "created_at",
	"date_assigned": "date_assigned",
	"date_updated":  "date_updated",
	"lead_name":     "lead_name",
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if params.Unassigned {
		query += ` AND assigned_to IS NULL`
	} else if len(params.AssignedTo) > 0 {
		query += fmt.Sprintf(` AND assigned_to = ANY($%d)`, argPos)
		args = append(args, params.AssignedTo)
		argPos++
	}

	if params.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argPos)
		args = append(args, params.Status)
		argPos++
	}

	if params.Search != "" {
		query += fmt.Sprintf(` AND (lead_name ILIKE '%%' || $%d || '%%' OR phone LIKE '%%' || $%d || '%%')`, argPos, argPos)
		args = append(args, params.Search)
		argPos++
	}

	if params.AssignedFrom != nil {
		query += fmt.Sprintf(` AND date_assigned >= $%d`, argPos)
		args = append(args, *params.AssignedFrom)
		argPos++
	}
	if params.AssignedUpTo != nil {
		query += fmt.Sprintf(` AND date_assigned <= $%d`, argPos)
		args = append(args, *params.AssignedUpTo)
		argPos++
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if params.SortAsc {
		direction = "ASC"
	}
	query += ` ORDER BY ` + column + ` ` + direction

	if params.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argPos)
		args = append(args, params.Limit)
		argPos++
	}
	if params.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argPos)
		args = append(args, params.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

type UpdateStatusParams struct {
	ID           uuid.UUID
	Status       string
	FollowUpDate *time.Time
	FollowUpTime string
	Rescheduled  bool
	DateUpdated  time.Time
	Note         AppendNoteParams
}

// UpdateStatus persists the outcome of a status transition and appends the
// corresponding note in a single transaction.
func (r *Repository) UpdateStatus(ctx context.Context, params UpdateStatusParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, err
	}
	defer tx.Rollback(ctx)

	lead, err := scanLead(tx.QueryRow(ctx, `
		UPDATE leads
		SET status = $2, follow_up_date = $3, follow_up_time = $4, rescheduled = $5,
			date_updated = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		params.ID, params.Status, params.FollowUpDate, params.FollowUpTime, params.Rescheduled, params.DateUpdated,
	))
	if err != nil {
		return Lead{}, err
	}

	if err := appendNoteTx(ctx, tx, params.ID, params.Note); err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, err
	}

	return lead, nil
}

type ReassignParams struct {
	AssignedTo     uuid.UUID
	AssignedToName string
	DateAssigned   time.Time
	NoteText       string
	UpdatedBy      string
}

// Reassign moves a lead to a new owner. Status always restarts at Pending and
// the follow-up fields are cleared; prior notes are untouched.
func (r *Repository) Reassign(ctx context.Context, id uuid.UUID, params ReassignParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, err
	}
	defer tx.Rollback(ctx)

	lead, err := reassignTx(ctx, tx, id, params)
	if err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, err
	}

	return lead, nil
}

// BulkReassign applies reassignment to every id inside one transaction. The
// whole batch commits or none of it does.
func (r *Repository) BulkReassign(ctx context.Context, ids []uuid.UUID, params ReassignParams) ([]Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	leads := make([]Lead, 0, len(ids))
	for _, id := range ids {
		lead, err := reassignTx(ctx, tx, id, params)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return leads, nil
}

func reassignTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, params ReassignParams) (Lead, error) {
	lead, err := scanLead(tx.QueryRow(ctx, `
		UPDATE leads
		SET assigned_to = $2, assigned_to_name = $3, date_assigned = $4,
			status = 'Pending', follow_up_date = NULL, follow_up_time = '', rescheduled = false,
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.AssignedTo, params.AssignedToName, params.DateAssigned,
	))
	if err != nil {
		return Lead{}, err
	}

	err = appendNoteTx(ctx, tx, id, AppendNoteParams{
		Text:      params.NoteText,
		Status:    "Assigned",
		UpdatedBy: params.UpdatedBy,
	})
	if err != nil {
		return Lead{}, err
	}

	return lead, nil
}

// Unassign returns the leads to the pool: owner cleared, status Unassigned,
// one note appended per lead. Single transaction for the whole set.
func (r *Repository) Unassign(ctx context.Context, ids []uuid.UUID, updatedBy string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, id := range ids {
		tag, err := tx.Exec(ctx, `
			UPDATE leads
			SET assigned_to = NULL, assigned_to_name = '', date_assigned = NULL,
				status = 'Unassigned', follow_up_date = NULL, follow_up_time = '', rescheduled = false,
				updated_at = now()
			WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		err = appendNoteTx(ctx, tx, id, AppendNoteParams{
			Text:      "Lead unassigned by " + updatedBy,
			Status:    "Unassigned",
			UpdatedBy: updatedBy,
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete hard-deletes the leads and their notes. Irreversible.
func (r *Repository) Delete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ExistingIDs reports which of the given ids exist. Bulk operations use it to
// validate the whole id set before touching anything.
func (r *Repository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[uuid.UUID]bool, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}

	return found, rows.Err()
}
