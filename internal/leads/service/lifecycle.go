package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// defaultFollowUpDelay is used when a follow-up task is requested without an
// explicit due time.
const defaultFollowUpDelay = 24 * time.Hour

// LogCall records a full call attempt. The engine classifies the disposition,
// and the state patch plus the call log row commit in one transaction. On
// persistence failure nothing is applied and the error surfaces to the
// caller; there is no retry here.
func (s *Service) LogCall(ctx context.Context, leadID uuid.UUID, req transport.LogCallRequest) (transport.LifecycleResponse, error) {
	current, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError("leads.LogCall", err)
	}

	attempt := domain.CallAttempt{
		Disposition:         domain.Disposition(req.Disposition),
		Note:                req.Note,
		FollowTaskRequested: req.FollowTaskRequested,
	}
	if req.Date != nil {
		attempt.Date = *req.Date
	}

	decision := domain.LogCallOutcome(toDomainLead(current), attempt)

	lead, entry, err := s.repo.LogCall(ctx, leadID, patchFromDecision(decision), callLogParams(req))
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError("leads.LogCall", err)
	}

	s.log.LeadTransition(leadID.String(), "log_call", current.Status, current.Tag, lead.Status, lead.Tag)
	s.bus.Publish(ctx, events.CallLogged{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      leadID,
		CallID:      entry.ID,
		Disposition: req.Disposition,
		NewStatus:   lead.Status,
		NewTag:      lead.Tag,
	})

	if req.FollowTaskRequested {
		s.scheduleFollowUp(ctx, leadID, entry.ID, req.FollowUpAt)
	}

	leadResp := toLeadResponse(lead)
	callResp := toCallResponse(entry)
	return transport.LifecycleResponse{
		Lead:    &leadResp,
		Call:    &callResp,
		Message: decision.Message,
	}, nil
}

// HitCall handles the quick-dial action. Only the binary connected signal is
// collected; no call log row is written.
func (s *Service) HitCall(ctx context.Context, leadID uuid.UUID, req transport.HitCallRequest) (transport.LifecycleResponse, error) {
	current, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError("leads.HitCall", err)
	}

	decision := domain.HitCall(toDomainLead(current), domain.CallResponse(req.Response))

	lead, err := s.repo.ApplyState(ctx, leadID, patchFromDecision(decision))
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError("leads.HitCall", err)
	}

	s.log.LeadTransition(leadID.String(), "hit_call", current.Status, current.Tag, lead.Status, lead.Tag)

	leadResp := toLeadResponse(lead)
	return transport.LifecycleResponse{
		Lead:    &leadResp,
		Message: decision.Message,
	}, nil
}

// MoveStage handles a manual pipeline click. When the engine answers with a
// signal instead of a mutation, the lead is returned untouched and the
// signal tells the client which flow to open.
func (s *Service) MoveStage(ctx context.Context, leadID uuid.UUID, req transport.MoveStageRequest) (transport.LifecycleResponse, error) {
	current, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError("leads.MoveStage", err)
	}

	target := domain.StageTarget{
		ID:     req.StageID,
		Name:   req.Name,
		Status: req.Status,
	}

	// Pipeline-driven clicks resolve the stage server-side: the status comes
	// from the stored is_final flag, not from the request.
	if req.StageID != nil {
		resolved, err := s.resolveStageTarget(ctx, leadID, *req.StageID)
		if err != nil {
			return transport.LifecycleResponse{}, err
		}
		target = resolved
	}

	decision := domain.MoveToStage(toDomainLead(current), target)

	if decision.Signal != domain.SignalNone {
		leadResp := toLeadResponse(current)
		return transport.LifecycleResponse{
			Lead:   &leadResp,
			Signal: string(decision.Signal),
		}, nil
	}
	if !decision.Mutates() {
		leadResp := toLeadResponse(current)
		return transport.LifecycleResponse{Lead: &leadResp}, nil
	}

	lead, err := s.repo.ApplyState(ctx, leadID, patchFromDecision(decision))
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError("leads.MoveStage", err)
	}

	s.log.LeadTransition(leadID.String(), "move_stage", current.Status, current.Tag, lead.Status, lead.Tag)
	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		StageID:   decision.StageID,
		NewStatus: lead.Status,
		NewTag:    lead.Tag,
	})

	leadResp := toLeadResponse(lead)
	return transport.LifecycleResponse{
		Lead:    &leadResp,
		Message: decision.Message,
	}, nil
}

// Drop performs the irrevocable disqualification. Guards run before any
// write; the reassignment command is published as a LeadDropped event that
// the assignment module fulfills.
func (s *Service) Drop(ctx context.Context, leadID uuid.UUID, req transport.DropLeadRequest) (transport.LifecycleResponse, error) {
	current, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError("leads.Drop", err)
	}

	rules, err := s.rules.Rules(ctx)
	if err != nil {
		return transport.LifecycleResponse{}, apperr.Persistence("leads.Drop", err)
	}

	decision, err := domain.DropLead(toDomainLead(current), domain.DropRequest{
		Reason:    req.Reason,
		Remarks:   req.Remarks,
		Confirmed: req.Confirmed,
	}, rules)
	if err != nil {
		return transport.LifecycleResponse{}, mapDomainError(err)
	}

	lead, err := s.repo.ApplyState(ctx, leadID, patchFromDecision(decision))
	if err != nil {
		return transport.LifecycleResponse{}, mapRepoError("leads.Drop", err)
	}

	s.log.LeadTransition(leadID.String(), "drop", current.Status, current.Tag, lead.Status, lead.Tag)

	// Synchronous so the reassignment outbox row is written before the drop
	// response goes out. The drop itself is already committed, so a failed
	// handler is logged rather than surfaced.
	if err := s.bus.PublishSync(ctx, events.LeadDropped{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		DropReason: req.Reason,
		Remarks:    req.Remarks,
		ToRole:     decision.Reassign.ToRole,
	}); err != nil {
		s.log.Error("lead dropped event handling failed", "leadId", leadID, "error", err)
	}

	leadResp := toLeadResponse(lead)
	return transport.LifecycleResponse{
		Lead:    &leadResp,
		Message: decision.Message,
	}, nil
}

// Stages computes the effective stage read model for a lead.
func (s *Service) Stages(ctx context.Context, leadID uuid.UUID) (transport.StageListResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return transport.StageListResponse{}, mapRepoError("leads.Stages", err)
	}

	pipelineRow, err := s.repo.GetPipelineForLead(ctx, leadID)
	if err != nil {
		return transport.StageListResponse{}, apperr.Persistence("leads.Stages", err)
	}

	var pipeline *domain.Pipeline
	if pipelineRow != nil {
		stages := make([]domain.PipelineStage, 0, len(pipelineRow.Stages))
		for _, st := range pipelineRow.Stages {
			stages = append(stages, domain.PipelineStage{
				ID:       st.ID,
				Name:     st.Name,
				Position: st.Position,
				IsFinal:  st.IsFinal,
			})
		}
		pipeline = &domain.Pipeline{ID: pipelineRow.ID, Name: pipelineRow.Name, Stages: stages}
	}

	return transport.StageListResponse{
		Stages: domain.EffectiveStages(toDomainLead(lead), pipeline),
	}, nil
}

// CanDrop reports drop eligibility for a lead so the UI can disable the
// action up front.
func (s *Service) CanDrop(ctx context.Context, leadID uuid.UUID) (bool, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return false, mapRepoError("leads.CanDrop", err)
	}
	rules, err := s.rules.Rules(ctx)
	if err != nil {
		return false, apperr.Persistence("leads.CanDrop", err)
	}
	return domain.CanDrop(toDomainLead(lead), rules), nil
}

func (s *Service) ListCalls(ctx context.Context, leadID uuid.UUID) ([]transport.CallLogResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return nil, mapRepoError("leads.ListCalls", err)
	}
	calls, err := s.repo.ListCalls(ctx, leadID)
	if err != nil {
		return nil, apperr.Persistence("leads.ListCalls", err)
	}

	out := make([]transport.CallLogResponse, 0, len(calls))
	for _, call := range calls {
		out = append(out, toCallResponse(call))
	}
	return out, nil
}

func (s *Service) DeleteCall(ctx context.Context, leadID, callID uuid.UUID) error {
	if err := s.repo.DeleteCall(ctx, leadID, callID); err != nil {
		return mapRepoError("leads.DeleteCall", err)
	}
	return nil
}

func (s *Service) scheduleFollowUp(ctx context.Context, leadID, callID uuid.UUID, at *time.Time) {
	dueAt := time.Now().Add(defaultFollowUpDelay)
	if at != nil {
		dueAt = *at
	}

	task, err := s.repo.CreateFollowUpTask(ctx, leadID, &callID, dueAt)
	if err != nil {
		s.log.Error("failed to create follow-up task", "error", err, "leadId", leadID)
		return
	}

	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.ScheduleFollowUp(ctx, leadID, task.ID, dueAt); err != nil {
		s.log.Error("failed to schedule follow-up reminder", "error", err, "leadId", leadID)
	}
}

// resolveStageTarget looks up the clicked stage in the lead's pipeline and
// derives the click target from the stored stage.
func (s *Service) resolveStageTarget(ctx context.Context, leadID, stageID uuid.UUID) (domain.StageTarget, error) {
	pipelineRow, err := s.repo.GetPipelineForLead(ctx, leadID)
	if err != nil {
		return domain.StageTarget{}, apperr.Persistence("leads.MoveStage", err)
	}
	if pipelineRow != nil {
		for _, st := range pipelineRow.Stages {
			if st.ID == stageID {
				return domain.TargetFromPipelineStage(domain.PipelineStage{
					ID:       st.ID,
					Name:     st.Name,
					Position: st.Position,
					IsFinal:  st.IsFinal,
				}), nil
			}
		}
	}
	return domain.StageTarget{}, apperr.Validation("stage does not belong to the lead's pipeline")
}

// callLogParams maps the request onto the append-only call log row. The note
// column is NOT NULL, so a request without a note stores the empty string
// rather than NULL.
func callLogParams(req transport.LogCallRequest) repository.CreateCallLogParams {
	params := repository.CreateCallLogParams{
		Disposition:         req.Disposition,
		Note:                req.Note,
		FollowTaskRequested: req.FollowTaskRequested,
	}
	if req.Date != nil {
		params.CallDate = *req.Date
	}
	return params
}

func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDropReasonRequired),
		errors.Is(err, domain.ErrDropRemarksRequired),
		errors.Is(err, domain.ErrDropNotConfirmed),
		errors.Is(err, domain.ErrDropNotEligible):
		return apperr.Validation(err.Error())
	default:
		return err
	}
}

func patchFromDecision(d domain.Decision) repository.StatePatch {
	patch := repository.StatePatch{CallDelta: d.CallDelta}
	if d.Status != domain.StatusUnchanged {
		status := string(d.Status)
		patch.Status = &status
	}
	if d.Tag != domain.TagUnchanged {
		tag := string(d.Tag)
		patch.Tag = &tag
	}
	if d.StageID != nil {
		patch.StageID = d.StageID
	}
	if d.DropReason != "" {
		patch.DropReason = &d.DropReason
	}
	if d.Remarks != "" {
		patch.Remarks = &d.Remarks
	}
	return patch
}
