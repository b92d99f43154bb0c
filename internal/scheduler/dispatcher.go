package scheduler

import (
	"context"
	"time"

	assignmentservice "leadflow_backend/internal/assignment/service"
	"leadflow_backend/platform/logger"
)

const (
	dispatchInterval = 5 * time.Second
	dispatchBatch    = 50
)

// ReassignmentDispatcher sweeps the reassignment outbox for pending entries
// whose initial enqueue failed and pushes them onto the queue.
type ReassignmentDispatcher struct {
	assignment *assignmentservice.Service
	log        *logger.Logger
}

func NewReassignmentDispatcher(assignment *assignmentservice.Service, log *logger.Logger) *ReassignmentDispatcher {
	return &ReassignmentDispatcher{assignment: assignment, log: log}
}

func (d *ReassignmentDispatcher) Run(ctx context.Context) {
	if d == nil || d.assignment == nil {
		return
	}

	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := d.assignment.DispatchPending(ctx, dispatchBatch); err != nil {
			d.log.Warn("outbox dispatch failed", "error", err)
		}
	}
}
