// Package service orchestrates the leads bounded context: it loads lead
// snapshots, delegates every lifecycle decision to the domain engine, and
// persists the resulting deltas. No other code path writes status, tag,
// call_count or stage_id.
package service

import (
	"context"
	"errors"
	"math"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
)

// RulesProvider supplies the assignment rules consumed by the drop guard.
type RulesProvider interface {
	Rules(ctx context.Context) (domain.AssignmentRules, error)
}

// FollowUpScheduler enqueues a follow-up reminder for a created task.
type FollowUpScheduler interface {
	ScheduleFollowUp(ctx context.Context, leadID, taskID uuid.UUID, runAt time.Time) error
}

type Service struct {
	repo      *repository.Repository
	bus       events.Bus
	rules     RulesProvider
	scheduler FollowUpScheduler
	log       *logger.Logger

	storage          ObjectStorage
	attachmentBucket string
}

func New(repo *repository.Repository, bus events.Bus, rules RulesProvider, scheduler FollowUpScheduler, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		bus:       bus,
		rules:     rules,
		scheduler: scheduler,
		log:       log,
	}
}

// WithStorage enables attachment handling. Without it, attachment endpoints
// reject requests instead of failing on a nil client.
func (s *Service) WithStorage(storage ObjectStorage, bucket string) *Service {
	s.storage = storage
	s.attachmentBucket = bucket
	return s
}

func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	params := repository.CreateLeadParams{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      phone.NormalizeE164(req.Phone),
		Status:     string(domain.StatusNew),
		Tag:        string(domain.TagNotContacted),
		PipelineID: req.PipelineID,
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.Company != "" {
		params.Company = &req.Company
	}
	if req.Source != "" {
		params.Source = &req.Source
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, apperr.Persistence("leads.Create", err)
	}

	s.bus.Publish(ctx, events.LeadCreated{BaseEvent: events.NewBaseEvent(), LeadID: lead.ID})

	return toLeadResponse(lead), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError("leads.GetByID", err)
	}
	return toLeadResponse(lead), nil
}

func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	leads, total, err := s.repo.List(ctx, repository.ListLeadsParams{
		Status:   req.Status,
		Tag:      req.Tag,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, apperr.Persistence("leads.List", err)
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(req.PageSize))),
	}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateLeadParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Company:   req.Company,
		Source:    req.Source,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.PipelineID != nil {
		params.PipelineID = req.PipelineID
		params.PipelineIDSet = true
	}
	if req.AssigneeID != nil {
		params.AssignedAgentID = req.AssigneeID
		params.AssignedIDSet = true
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError("leads.Update", err)
	}
	return toLeadResponse(lead), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError("leads.Delete", err)
	}
	return nil
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("lead not found")
	case errors.Is(err, repository.ErrCallNotFound):
		return apperr.NotFound("call log entry not found")
	case errors.Is(err, repository.ErrNoteNotFound):
		return apperr.NotFound("note not found")
	case errors.Is(err, repository.ErrAttachmentNotFound):
		return apperr.NotFound("attachment not found")
	default:
		return apperr.Persistence(op, err)
	}
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		Phone:           lead.Phone,
		Email:           lead.Email,
		Company:         lead.Company,
		Source:          lead.Source,
		Status:          lead.Status,
		Tag:             lead.Tag,
		CallCount:       lead.CallCount,
		PipelineID:      lead.PipelineID,
		StageID:         lead.StageID,
		DropReason:      lead.DropReason,
		Remarks:         lead.Remarks,
		AssignedAgentID: lead.AssignedAgentID,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}

func toCallResponse(call repository.CallLog) transport.CallLogResponse {
	return transport.CallLogResponse{
		ID:                  call.ID,
		LeadID:              call.LeadID,
		Disposition:         call.Disposition,
		CallDate:            call.CallDate,
		Note:                call.Note,
		FollowTaskRequested: call.FollowTaskRequested,
		CreatedAt:           call.CreatedAt,
	}
}

func toDomainLead(lead repository.Lead) domain.Lead {
	d := domain.Lead{
		ID:        lead.ID,
		Status:    domain.Status(lead.Status),
		Tag:       domain.Tag(lead.Tag),
		CallCount: lead.CallCount,
		StageID:   lead.StageID,
	}
	if lead.DropReason != nil {
		d.DropReason = *lead.DropReason
	}
	if lead.Remarks != nil {
		d.Remarks = *lead.Remarks
	}
	return d
}
