package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("member not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Member struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      string
	Status    string
	ManagerID *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

const memberColumns = `id, name, email, role, status, manager_id, created_at, updated_at`

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.Status, &m.ManagerID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	if err != nil {
		return Member{}, err
	}
	return m, nil
}

type CreateMemberParams struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      string
	ManagerID *uuid.UUID
}

// Create inserts a member. The id is the auth-provided identifier, not
// store-generated.
func (r *Repository) Create(ctx context.Context, params CreateMemberParams) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		INSERT INTO members (id, name, email, role, status, manager_id)
		VALUES ($1, $2, $3, $4, 'active', $5)
		RETURNING `+memberColumns,
		params.ID, params.Name, params.Email, params.Role, params.ManagerID,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+` FROM members WHERE id = $1
	`, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+` FROM members WHERE email = $1
	`, email))
}

type ListParams struct {
	Role      string
	Status    string
	ManagerID *uuid.UUID
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if params.Role != "" {
		query += fmt.Sprintf(` AND role = $%d`, argPos)
		args = append(args, params.Role)
		argPos++
	}
	if params.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argPos)
		args = append(args, params.Status)
		argPos++
	}
	if params.ManagerID != nil {
		query += fmt.Sprintf(` AND manager_id = $%d`, argPos)
		args = append(args, *params.ManagerID)
	}

	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// ManagedMemberIDs returns the ids of members whose manager is the given id.
// The managers-to-members edge is derived from manager_id alone; there is no
// second list to drift out of sync.
func (r *Repository) ManagedMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM members WHERE manager_id = $1`, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *Repository) AllMemberIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM members`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

type UpdateMemberParams struct {
	Name      *string
	Role      *string
	Status    *string
	ManagerID *uuid.UUID
	// ClearManager detaches the member from their manager.
	ClearManager bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateMemberParams) (Member, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}
	argPos := 2

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}
	if params.Role != nil {
		sets = append(sets, fmt.Sprintf("role = $%d", argPos))
		args = append(args, *params.Role)
		argPos++
	}
	if params.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *params.Status)
		argPos++
	}
	if params.ClearManager {
		sets = append(sets, "manager_id = NULL")
	} else if params.ManagerID != nil {
		sets = append(sets, fmt.Sprintf("manager_id = $%d", argPos))
		args = append(args, *params.ManagerID)
	}

	query := fmt.Sprintf(`UPDATE members SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), memberColumns)
	return scanMember(r.pool.QueryRow(ctx, query, args...))
}
