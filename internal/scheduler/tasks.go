package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskLeadFollowUpDue fires when a scheduled follow-up reminder is due.
const TaskLeadFollowUpDue = "leads.followup.due"

// TaskLeadReassign processes one reassignment outbox entry.
const TaskLeadReassign = "leads.reassign"

type FollowUpDuePayload struct {
	LeadID string `json:"leadId"`
	TaskID string `json:"taskId"`
}

type ReassignPayload struct {
	EntryID string `json:"entryId"`
}

func NewFollowUpDueTask(payload FollowUpDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadFollowUpDue, data), nil
}

func ParseFollowUpDuePayload(task *asynq.Task) (FollowUpDuePayload, error) {
	var payload FollowUpDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpDuePayload{}, err
	}
	return payload, nil
}

func NewReassignTask(payload ReassignPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadReassign, data), nil
}

func ParseReassignPayload(task *asynq.Task) (ReassignPayload, error) {
	var payload ReassignPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReassignPayload{}, err
	}
	return payload, nil
}
