package scheduler

import (
	"context"
	"fmt"

	assignmentservice "leadflow_backend/internal/assignment/service"
	authrepository "leadflow_backend/internal/auth/repository"
	leadsrepository "leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/notification"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	leads      *leadsrepository.Repository
	users      *authrepository.Repository
	assignment *assignmentservice.Service
	notifier   notification.Sender
	log        *logger.Logger
}

func NewWorker(
	cfg config.SchedulerConfig,
	pool *pgxpool.Pool,
	assignment *assignmentservice.Service,
	notifier notification.Sender,
	log *logger.Logger,
) (*Worker, error) {
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
		server:     server,
		mux:        mux,
		leads:      leadsrepository.New(pool),
		users:      authrepository.New(pool),
		assignment: assignment,
		notifier:   notifier,
		log:        log,
	}

	mux.HandleFunc(TaskLeadFollowUpDue, w.handleFollowUpDue)
	mux.HandleFunc(TaskLeadReassign, w.handleReassign)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleFollowUpDue marks the task done, leaves an audit note on the lead,
// and reminds the assigned agent. A lead that was dropped or deleted in the
// meantime silently ends the reminder.
func (w *Worker) handleFollowUpDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpDuePayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}
	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		return err
	}

	if err := w.leads.MarkFollowUpDone(ctx, taskID); err != nil {
		return err
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if err != nil {
		return nil
	}

	if _, err := w.leads.CreateNote(ctx, leadsrepository.CreateNoteParams{
		LeadID: leadID,
		Body:   "Follow-up reminder fired",
	}); err != nil {
		w.log.Error("failed to write follow-up note", "leadID", leadID, "error", err)
	}

	if w.notifier == nil || lead.AssignedAgentID == nil {
		return nil
	}

	agent, err := w.users.GetUserByID(ctx, *lead.AssignedAgentID)
	if err != nil {
		w.log.Error("failed to resolve agent for follow-up", "leadID", leadID, "error", err)
		return nil
	}

	if err := w.notifier.NotifyFollowUpDue(ctx, agent.Email, agent.FullName, leadID); err != nil {
		w.log.Error("failed to send follow-up reminder", "leadID", leadID, "error", err)
	}
	return nil
}

func (w *Worker) handleReassign(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReassignPayload(task)
	if err != nil {
		return err
	}

	entryID, err := uuid.Parse(payload.EntryID)
	if err != nil {
		return err
	}

	return w.assignment.ProcessReassignment(ctx, entryID)
}
