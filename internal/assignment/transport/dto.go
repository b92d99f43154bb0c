package transport

import "time"

type UpdateRulesRequest struct {
	MaxCallAttempts int `json:"maxCallAttempts" validate:"required,min=1,max=100"`
}

type RulesResponse struct {
	MaxCallAttempts int        `json:"maxCallAttempts"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}
