package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FollowUpScheduler enqueues follow-up reminders for leads whose status
// carries a follow-up date. Implemented by the task scheduler client; a no-op
// implementation is valid when background processing is disabled.
type FollowUpScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, leadID uuid.UUID, leadName string, ownerID uuid.UUID, at time.Time) error
}
