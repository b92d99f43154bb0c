// Package service implements assignment rules and reassignment fulfillment.
// It consumes LeadDropped events through a durable outbox so a crashed worker
// never loses a reassignment command.
package service

import (
	"context"
	"errors"
	"fmt"

	"leadflow_backend/internal/assignment/repository"
	"leadflow_backend/internal/assignment/transport"
	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// Enqueuer hands outbox entries to the task queue. Nil disables queueing and
// leaves entries for the dispatcher loop.
type Enqueuer interface {
	EnqueueReassign(ctx context.Context, entryID uuid.UUID) error
}

// Notifier informs an officer that a lead landed on their desk.
type Notifier interface {
	NotifyReassignment(ctx context.Context, officerEmail, officerName string, leadID uuid.UUID, dropReason, remarks string) error
}

type Config interface {
	GetDefaultMaxCallAttempts() int
}

type Service struct {
	repo     *repository.Repository
	bus      events.Bus
	cfg      Config
	enqueuer Enqueuer
	notifier Notifier
	log      *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, cfg: cfg, log: log}
}

func (s *Service) SetEnqueuer(enqueuer Enqueuer) { s.enqueuer = enqueuer }
func (s *Service) SetNotifier(notifier Notifier) { s.notifier = notifier }

// RegisterSubscribers wires the service to the event bus.
func (s *Service) RegisterSubscribers(bus events.Bus) {
	bus.Subscribe(events.LeadDropped{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		dropped, ok := e.(events.LeadDropped)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", e, e.EventName())
		}
		return s.HandleLeadDropped(ctx, dropped)
	}))
}

// Rules implements the rules provider consumed by the drop guard. A missing
// row falls back to the configured default instead of failing the drop.
func (s *Service) Rules(ctx context.Context) (domain.AssignmentRules, error) {
	rules, err := s.repo.GetRules(ctx)
	if errors.Is(err, repository.ErrNoRules) {
		return domain.AssignmentRules{MaxCallAttempts: s.cfg.GetDefaultMaxCallAttempts()}, nil
	}
	if err != nil {
		return domain.AssignmentRules{}, apperr.Persistence("assignment.Rules", err)
	}
	return domain.AssignmentRules{MaxCallAttempts: rules.MaxCallAttempts}, nil
}

func (s *Service) GetRules(ctx context.Context) (transport.RulesResponse, error) {
	rules, err := s.repo.GetRules(ctx)
	if errors.Is(err, repository.ErrNoRules) {
		return transport.RulesResponse{MaxCallAttempts: s.cfg.GetDefaultMaxCallAttempts()}, nil
	}
	if err != nil {
		return transport.RulesResponse{}, apperr.Persistence("assignment.GetRules", err)
	}
	return transport.RulesResponse{MaxCallAttempts: rules.MaxCallAttempts, UpdatedAt: &rules.UpdatedAt}, nil
}

func (s *Service) UpdateRules(ctx context.Context, req transport.UpdateRulesRequest) (transport.RulesResponse, error) {
	rules, err := s.repo.UpsertRules(ctx, req.MaxCallAttempts)
	if err != nil {
		return transport.RulesResponse{}, apperr.Persistence("assignment.UpdateRules", err)
	}
	return transport.RulesResponse{MaxCallAttempts: rules.MaxCallAttempts, UpdatedAt: &rules.UpdatedAt}, nil
}

// HandleLeadDropped persists the reassignment command and hands it to the
// queue. The outbox row is written first; enqueue failure is recoverable
// because the dispatcher loop retries pending entries.
func (s *Service) HandleLeadDropped(ctx context.Context, e events.LeadDropped) error {
	entry, err := s.repo.InsertOutbox(ctx, e.LeadID, e.ToRole, e.DropReason, e.Remarks)
	if err != nil {
		return fmt.Errorf("insert reassignment outbox: %w", err)
	}

	if s.enqueuer == nil {
		return nil
	}
	if err := s.enqueuer.EnqueueReassign(ctx, entry.ID); err != nil {
		s.log.Error("failed to enqueue reassignment, dispatcher will retry", "entryID", entry.ID, "error", err)
		return nil
	}
	return s.repo.MarkDispatched(ctx, entry.ID)
}

// DispatchPending enqueues pending outbox entries. Called from the dispatcher
// loop to pick up entries whose initial enqueue failed.
func (s *Service) DispatchPending(ctx context.Context, limit int) error {
	if s.enqueuer == nil {
		return nil
	}

	entries, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}

	for _, entry := range entries {
		if err := s.enqueuer.EnqueueReassign(ctx, entry.ID); err != nil {
			s.log.Error("failed to enqueue reassignment", "entryID", entry.ID, "error", err)
			continue
		}
		if err := s.repo.MarkDispatched(ctx, entry.ID); err != nil {
			return err
		}
	}
	return nil
}

// ProcessReassignment fulfills one outbox entry: resolve an officer holding
// the target role, hand over the lead, and notify. Safe to deliver twice;
// the done-state guard makes the second run a no-op.
func (s *Service) ProcessReassignment(ctx context.Context, entryID uuid.UUID) error {
	entry, err := s.repo.GetOutboxEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("load outbox entry %s: %w", entryID, err)
	}
	if entry.Status == repository.OutboxDone {
		return nil
	}

	officer, err := s.repo.FindOfficerByRole(ctx, entry.ToRole)
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
			s.log.Error("failed to mark outbox entry failed", "entryID", entry.ID, "error", markErr)
		}
		return fmt.Errorf("resolve officer for role %s: %w", entry.ToRole, err)
	}

	if err := s.repo.AssignLead(ctx, entry.LeadID, officer.ID); err != nil {
		if markErr := s.repo.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
			s.log.Error("failed to mark outbox entry failed", "entryID", entry.ID, "error", markErr)
		}
		return fmt.Errorf("assign lead %s: %w", entry.LeadID, err)
	}

	if err := s.repo.MarkDone(ctx, entry.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			return nil
		}
		return err
	}

	s.bus.Publish(ctx, events.LeadReassigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    entry.LeadID,
		OfficerID: officer.ID,
	})

	if s.notifier != nil {
		if err := s.notifier.NotifyReassignment(ctx, officer.Email, officer.FullName, entry.LeadID, entry.DropReason, entry.Remarks); err != nil {
			s.log.Error("failed to notify officer of reassignment", "leadID", entry.LeadID, "error", err)
		}
	}

	s.log.Info("lead reassigned",
		"leadID", entry.LeadID,
		"officerID", officer.ID,
		"role", entry.ToRole,
	)
	return nil
}
