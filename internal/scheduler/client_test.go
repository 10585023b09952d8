package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type stubConfig struct {
	redisURL string
}

func (s stubConfig) GetRedisURL() string         { return s.redisURL }
func (s stubConfig) GetRedisTLSInsecure() bool   { return false }
func (s stubConfig) GetAsynqQueueName() string   { return "test" }
func (s stubConfig) GetAsynqConcurrency() int    { return 1 }
func (s stubConfig) GetDailyReportHour() int     { return 7 }
func (s stubConfig) GetDailyReportEmail() string { return "" }
func (s stubConfig) GetDailyReportPhone() string { return "" }

func TestScheduleFollowUpReminder(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(stubConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	due := time.Now().AddDate(0, 0, 2)
	err = client.ScheduleFollowUpReminder(context.Background(), uuid.New(), "Asha", uuid.New(), due)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("scheduled tasks = %d, want 1", len(tasks))
	}
	if tasks[0].Type != TaskFollowUpReminder {
		t.Errorf("task type = %q, want %q", tasks[0].Type, TaskFollowUpReminder)
	}

	payload, err := ParseFollowUpReminderPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.DueDate != due.Format("2006-01-02") {
		t.Errorf("due date = %q, want %q", payload.DueDate, due.Format("2006-01-02"))
	}
}

func TestNextReportTime(t *testing.T) {
	base := time.Date(2024, time.March, 10, 6, 0, 0, 0, time.UTC)

	next := nextReportTime(base, 7)
	if next.Day() != 10 || next.Hour() != 7 {
		t.Errorf("next = %v, want same day 07:00", next)
	}

	// Past the report hour the dispatcher waits for tomorrow.
	next = nextReportTime(base.Add(2*time.Hour), 7)
	if next.Day() != 11 || next.Hour() != 7 {
		t.Errorf("next = %v, want next day 07:00", next)
	}
}
