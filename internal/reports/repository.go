package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads lead facts for aggregation. The last-touched timestamp is
// computed in SQL so the engine never loads note rows.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const factQuery = `
	SELECT l.status, l.assigned_to, l.assigned_to_name, l.date_assigned,
		GREATEST(
			COALESCE(n.last_note, l.created_at),
			COALESCE(l.date_assigned, l.created_at)
		) AS last_touched
	FROM leads l
	LEFT JOIN LATERAL (
		SELECT max(created_at) AS last_note FROM lead_notes WHERE lead_id = l.id
	) n ON true`

// FactsForMembers returns facts for leads owned by any of the given members.
func (r *Repository) FactsForMembers(ctx context.Context, memberIDs []uuid.UUID) ([]LeadFact, error) {
	rows, err := r.pool.Query(ctx, factQuery+` WHERE l.assigned_to = ANY($1)`, memberIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFacts(rows)
}

// AllFacts returns facts for the entire lead set, including unassigned leads.
func (r *Repository) AllFacts(ctx context.Context) ([]LeadFact, error) {
	rows, err := r.pool.Query(ctx, factQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFacts(rows)
}

type factRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanFacts(rows factRows) ([]LeadFact, error) {
	facts := make([]LeadFact, 0)
	for rows.Next() {
		var fact LeadFact
		err := rows.Scan(&fact.Status, &fact.AssignedTo, &fact.AssignedToName, &fact.DateAssigned, &fact.LastTouched)
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}
