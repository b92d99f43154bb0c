// Package service holds the pipeline management logic. A pipeline is an
// ordered list of named stages; exactly one stage may be marked final, which
// is what turns a manual stage click into a won lead.
package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/pipelines/repository"
	"leadflow_backend/internal/pipelines/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req transport.CreatePipelineRequest) (transport.PipelineResponse, error) {
	if err := validateStages(req.Stages); err != nil {
		return transport.PipelineResponse{}, err
	}

	p, err := s.repo.Create(ctx, req.Name, toStageParams(req.Stages))
	if err != nil {
		return transport.PipelineResponse{}, apperr.Persistence("pipelines.Create", err)
	}
	return toResponse(p), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.PipelineResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PipelineResponse{}, mapRepoError("pipelines.GetByID", err)
	}
	return toResponse(p), nil
}

func (s *Service) List(ctx context.Context) (transport.PipelineListResponse, error) {
	pipelines, err := s.repo.List(ctx)
	if err != nil {
		return transport.PipelineListResponse{}, apperr.Persistence("pipelines.List", err)
	}

	items := make([]transport.PipelineResponse, 0, len(pipelines))
	for _, p := range pipelines {
		items = append(items, toResponse(p))
	}
	return transport.PipelineListResponse{Items: items}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdatePipelineRequest) (transport.PipelineResponse, error) {
	if req.Stages != nil {
		if err := validateStages(req.Stages); err != nil {
			return transport.PipelineResponse{}, err
		}
	}

	var stages []repository.StageParams
	if req.Stages != nil {
		stages = toStageParams(req.Stages)
	}

	p, err := s.repo.Update(ctx, id, req.Name, stages)
	if err != nil {
		return transport.PipelineResponse{}, mapRepoError("pipelines.Update", err)
	}
	return toResponse(p), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError("pipelines.Delete", err)
	}
	return nil
}

// validateStages enforces unique names and at most one final stage.
func validateStages(stages []transport.StageInput) error {
	seen := make(map[string]bool, len(stages))
	finals := 0
	for _, stage := range stages {
		if seen[stage.Name] {
			return apperr.Validation("duplicate stage name: " + stage.Name)
		}
		seen[stage.Name] = true
		if stage.IsFinal {
			finals++
		}
	}
	if finals > 1 {
		return apperr.Validation("a pipeline can have at most one final stage")
	}
	return nil
}

func toStageParams(stages []transport.StageInput) []repository.StageParams {
	out := make([]repository.StageParams, 0, len(stages))
	for _, stage := range stages {
		out = append(out, repository.StageParams{
			Name:    stage.Name,
			Status:  stage.Status,
			IsFinal: stage.IsFinal,
		})
	}
	return out
}

func mapRepoError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("pipeline not found")
	}
	return apperr.Persistence(op, err)
}

func toResponse(p repository.Pipeline) transport.PipelineResponse {
	stages := make([]transport.StageResponse, 0, len(p.Stages))
	for _, s := range p.Stages {
		stages = append(stages, transport.StageResponse{
			ID:       s.ID,
			Name:     s.Name,
			Status:   s.Status,
			Position: s.Position,
			IsFinal:  s.IsFinal,
		})
	}
	return transport.PipelineResponse{
		ID:        p.ID,
		Name:      p.Name,
		Stages:    stages,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
