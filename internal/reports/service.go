package reports

import (
	"context"
	"sync"
	"time"

	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TeamMember is the minimal member projection reports need.
type TeamMember struct {
	ID   uuid.UUID
	Name string
}

// TeamProvider exposes the assignment graph to the reporting engine. The
// implementation wraps the members service via an adapter.
type TeamProvider interface {
	// ActiveTeam returns the active members visible to the actor. Inactive
	// members are already excluded; they never join team rollups.
	ActiveTeam(ctx context.Context, actorID uuid.UUID) ([]TeamMember, error)
}

// FactSource reads lead facts. *Repository satisfies it.
type FactSource interface {
	FactsForMembers(ctx context.Context, memberIDs []uuid.UUID) ([]LeadFact, error)
	AllFacts(ctx context.Context) ([]LeadFact, error)
}

type Service struct {
	facts FactSource
	team  TeamProvider
	log   *logger.Logger
}

func NewService(facts FactSource, team TeamProvider, log *logger.Logger) *Service {
	return &Service{facts: facts, team: team, log: log}
}

// TeamReport aggregates per member over the actor's active team. Fact loads
// fan out per member; the merge is deterministic regardless of completion
// order because the engine sorts buckets.
func (s *Service) TeamReport(ctx context.Context, actorID uuid.UUID, from, to *time.Time) (Report, error) {
	team, err := s.team.ActiveTeam(ctx, actorID)
	if err != nil {
		return Report{}, err
	}

	var (
		mu    sync.Mutex
		facts []LeadFact
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, member := range team {
		member := member
		g.Go(func() error {
			memberFacts, err := s.facts.FactsForMembers(gctx, []uuid.UUID{member.ID})
			if err != nil {
				return err
			}
			mu.Lock()
			facts = append(facts, memberFacts...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Aggregate(facts, from, to, GroupByUser), nil
}

// MemberReport aggregates a single member's leads by calendar day. An
// explicitly selected inactive member still gets a report; only rollups skip
// them.
func (s *Service) MemberReport(ctx context.Context, memberID uuid.UUID, from, to *time.Time) (Report, error) {
	facts, err := s.facts.FactsForMembers(ctx, []uuid.UUID{memberID})
	if err != nil {
		return Report{}, err
	}

	return Aggregate(facts, from, to, GroupByDay), nil
}

// OverallReport aggregates the entire lead set by owner, including the
// unassigned pool. Admin only.
func (s *Service) OverallReport(ctx context.Context, from, to *time.Time) (Report, error) {
	facts, err := s.facts.AllFacts(ctx)
	if err != nil {
		return Report{}, err
	}

	return Aggregate(facts, from, to, GroupByUser), nil
}
