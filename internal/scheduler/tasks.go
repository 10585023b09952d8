package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFollowUpReminder = "leads:followup_reminder"

const TaskDailyReport = "reports:daily"

type FollowUpReminderPayload struct {
	LeadID   string `json:"leadId"`
	LeadName string `json:"leadName"`
	OwnerID  string `json:"ownerId"`
	DueDate  string `json:"dueDate"`
}

type DailyReportPayload struct {
	Date string `json:"date"`
}

func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpReminder, data), nil
}

func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, err
	}
	return payload, nil
}

func NewDailyReportTask(payload DailyReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDailyReport, data), nil
}

func ParseDailyReportPayload(task *asynq.Task) (DailyReportPayload, error) {
	var payload DailyReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DailyReportPayload{}, err
	}
	return payload, nil
}
