package scheduler

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/reports"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// EmailSender delivers the rendered daily report. Implemented by the email
// module; nil disables email delivery.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MessageSender shares the rendered daily report over WhatsApp. Implemented
// by the whatsapp module; nil disables sharing.
type MessageSender interface {
	SendMessage(ctx context.Context, phone, message string) error
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	client  *Client
	reports *reports.Service
	email   EmailSender
	wa      MessageSender
	bus     events.Bus
	cfg     config.SchedulerConfig
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, client *Client, reportsSvc *reports.Service, email EmailSender, wa MessageSender, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		client:  client,
		reports: reportsSvc,
		email:   email,
		wa:      wa,
		bus:     bus,
		cfg:     cfg,
		log:     log,
	}

	mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)
	mux.HandleFunc(TaskDailyReport, w.handleDailyReport)

	return w, nil
}

// Run serves tasks until the context is cancelled. It also starts the daily
// report dispatcher, which enqueues one report task per day at the
// configured hour.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go w.dispatchDailyReports(ctx)

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) dispatchDailyReports(ctx context.Context) {
	for {
		next := nextReportTime(time.Now(), w.cfg.GetDailyReportHour())
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		// Report covers the previous calendar day.
		if err := w.client.EnqueueDailyReport(ctx, next.AddDate(0, 0, -1)); err != nil {
			w.log.TaskEvent(TaskDailyReport, false, err.Error())
			continue
		}
		w.log.TaskEvent(TaskDailyReport, true, "")
	}
}

func nextReportTime(now time.Time, hour int) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(payload.OwnerID)
	if err != nil {
		return err
	}

	if w.bus == nil {
		return nil
	}

	return w.bus.PublishSync(ctx, events.LeadFollowUpDue{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		LeadName:  payload.LeadName,
		OwnerID:   ownerID,
		DueDate:   payload.DueDate,
	})
}

func (w *Worker) handleDailyReport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDailyReportPayload(task)
	if err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return err
	}

	report, err := w.reports.OverallReport(ctx, &date, &date)
	if err != nil {
		return err
	}
	text := reports.RenderText(report)

	if w.email != nil {
		if to := w.cfg.GetDailyReportEmail(); to != "" {
			subject := "Lead report for " + payload.Date
			if err := w.email.Send(ctx, to, subject, text); err != nil {
				w.log.TaskEvent(TaskDailyReport, false, "email: "+err.Error())
			}
		}
	}

	if w.wa != nil {
		if phone := w.cfg.GetDailyReportPhone(); phone != "" {
			if err := w.wa.SendMessage(ctx, phone, text); err != nil {
				w.log.TaskEvent(TaskDailyReport, false, "whatsapp: "+err.Error())
			}
		}
	}

	return nil
}
