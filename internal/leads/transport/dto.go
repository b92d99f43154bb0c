package transport

import (
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Request DTOs

type CreateLeadRequest struct {
	FirstName  string     `json:"firstName" validate:"required,min=1,max=100"`
	LastName   string     `json:"lastName" validate:"required,min=1,max=100"`
	Phone      string     `json:"phone" validate:"required,min=5,max=20"`
	Email      string     `json:"email,omitempty" validate:"omitempty,email"`
	Company    string     `json:"company,omitempty" validate:"max=200"`
	Source     string     `json:"source,omitempty" validate:"max=100"`
	PipelineID *uuid.UUID `json:"pipelineId,omitempty"`
}

type UpdateLeadRequest struct {
	FirstName  *string    `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName   *string    `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Phone      *string    `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Email      *string    `json:"email,omitempty" validate:"omitempty,email"`
	Company    *string    `json:"company,omitempty" validate:"omitempty,max=200"`
	Source     *string    `json:"source,omitempty" validate:"omitempty,max=100"`
	PipelineID *uuid.UUID `json:"pipelineId,omitempty"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty"`
}

type ListLeadsRequest struct {
	Status   *string `form:"status" validate:"omitempty,max=50"`
	Tag      *string `form:"tag" validate:"omitempty,max=100"`
	Search   string  `form:"search" validate:"max=100"`
	Page     int     `form:"page" validate:"min=0"`
	PageSize int     `form:"pageSize" validate:"min=0,max=100"`
}

// LogCallRequest records a full call attempt with a disposition.
type LogCallRequest struct {
	Disposition         string     `json:"disposition" validate:"required,max=100"`
	Date                *time.Time `json:"date,omitempty"`
	Note                string     `json:"note,omitempty" validate:"max=2000"`
	FollowTaskRequested bool       `json:"followTaskRequested"`
	FollowUpAt          *time.Time `json:"followUpAt,omitempty"`
}

// HitCallRequest is the quick-dial action carrying only a binary signal.
type HitCallRequest struct {
	Response string `json:"response" validate:"required,oneof=connected 'not connected'"`
}

// MoveStageRequest is a manual pipeline click.
type MoveStageRequest struct {
	StageID *uuid.UUID `json:"stageId,omitempty"`
	Name    string     `json:"name,omitempty" validate:"max=100"`
	Status  string     `json:"status" validate:"required,max=50"`
}

// DropLeadRequest carries the mandatory drop inputs. Remarks are never
// optional, regardless of reason.
type DropLeadRequest struct {
	Reason    string `json:"reason" validate:"required,min=1,max=200"`
	Remarks   string `json:"remarks" validate:"required,min=1,max=2000"`
	Confirmed bool   `json:"confirmed"`
}

type AddNoteRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// Response DTOs

type LeadResponse struct {
	ID              uuid.UUID  `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Phone           string     `json:"phone"`
	Email           *string    `json:"email,omitempty"`
	Company         *string    `json:"company,omitempty"`
	Source          *string    `json:"source,omitempty"`
	Status          string     `json:"status"`
	Tag             string     `json:"tag"`
	CallCount       int        `json:"callCount"`
	PipelineID      *uuid.UUID `json:"pipelineId,omitempty"`
	StageID         *uuid.UUID `json:"stageId,omitempty"`
	DropReason      *string    `json:"dropReason,omitempty"`
	Remarks         *string    `json:"remarks,omitempty"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type CallLogResponse struct {
	ID                  uuid.UUID `json:"id"`
	LeadID              uuid.UUID `json:"leadId"`
	Disposition         string    `json:"disposition"`
	CallDate            time.Time `json:"callDate"`
	Note                string    `json:"note,omitempty"`
	FollowTaskRequested bool      `json:"followTaskRequested"`
	CreatedAt           time.Time `json:"createdAt"`
}

// LifecycleResponse is returned by every engine-backed operation. Signal is
// set when the click should open a follow-on flow instead of mutating;
// Call carries the appended log entry for later edit or delete.
type LifecycleResponse struct {
	Lead    *LeadResponse    `json:"lead,omitempty"`
	Call    *CallLogResponse `json:"call,omitempty"`
	Signal  string           `json:"signal,omitempty"`
	Message string           `json:"message,omitempty"`
}

type StageListResponse struct {
	Stages []domain.StageView `json:"stages"`
}

type NoteResponse struct {
	ID        uuid.UUID  `json:"id"`
	LeadID    uuid.UUID  `json:"leadId"`
	AuthorID  *uuid.UUID `json:"authorId,omitempty"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
}

type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"leadId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
