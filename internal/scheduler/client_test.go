package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type schedulerConfigStub struct {
	redisURL string
	queue    string
}

func (c schedulerConfigStub) GetRedisURL() string       { return c.redisURL }
func (c schedulerConfigStub) GetRedisTLSInsecure() bool { return false }
func (c schedulerConfigStub) GetAsynqQueueName() string { return c.queue }
func (c schedulerConfigStub) GetAsynqConcurrency() int  { return 1 }

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client, err := NewClient(schedulerConfigStub{
		redisURL: "redis://" + mr.Addr(),
		queue:    "test",
	})
	if err != nil {
		mr.Close()
		t.Fatalf("failed to create client: %v", err)
	}

	return client, mr
}

func TestClientEnqueueReassign(t *testing.T) {
	client, mr := newTestClient(t)
	defer mr.Close()
	defer client.Close()

	entryID := uuid.New()
	if err := client.EnqueueReassign(context.Background(), entryID); err != nil {
		t.Fatalf("EnqueueReassign failed: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("test")
	if err != nil {
		t.Fatalf("failed to list pending tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskLeadReassign {
		t.Fatalf("expected task type %q, got %q", TaskLeadReassign, tasks[0].Type)
	}

	payload, err := ParseReassignPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if payload.EntryID != entryID.String() {
		t.Fatalf("expected entry id %s, got %s", entryID, payload.EntryID)
	}
}

func TestClientScheduleFollowUp(t *testing.T) {
	client, mr := newTestClient(t)
	defer mr.Close()
	defer client.Close()

	leadID := uuid.New()
	taskID := uuid.New()
	runAt := time.Now().Add(time.Hour)

	if err := client.ScheduleFollowUp(context.Background(), leadID, taskID, runAt); err != nil {
		t.Fatalf("ScheduleFollowUp failed: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("failed to list scheduled tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskLeadFollowUpDue {
		t.Fatalf("expected task type %q, got %q", TaskLeadFollowUpDue, tasks[0].Type)
	}
}

func TestClientNilSafe(t *testing.T) {
	var client *Client
	if err := client.EnqueueReassign(context.Background(), uuid.New()); err != nil {
		t.Fatalf("nil client EnqueueReassign should be a no-op, got %v", err)
	}
	if err := client.ScheduleFollowUp(context.Background(), uuid.New(), uuid.New(), time.Now()); err != nil {
		t.Fatalf("nil client ScheduleFollowUp should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil client Close should be a no-op, got %v", err)
	}
}
