package transport

import (
	"time"

	"github.com/google/uuid"
)

type StageInput struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Status  string `json:"status" validate:"required,max=50"`
	IsFinal bool   `json:"isFinal"`
}

type CreatePipelineRequest struct {
	Name   string       `json:"name" validate:"required,min=1,max=100"`
	Stages []StageInput `json:"stages" validate:"required,min=1,max=30,dive"`
}

type UpdatePipelineRequest struct {
	Name   *string      `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Stages []StageInput `json:"stages,omitempty" validate:"omitempty,min=1,max=30,dive"`
}

type StageResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Position int       `json:"position"`
	IsFinal  bool      `json:"isFinal"`
}

type PipelineResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Stages    []StageResponse `json:"stages"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type PipelineListResponse struct {
	Items []PipelineResponse `json:"items"`
}
