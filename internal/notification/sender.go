// Package notification delivers operational email to agents and officers.
package notification

import (
	"context"

	"github.com/google/uuid"
)

const (
	subjectReassignment = "Lead assigned to you for investigation"
	subjectFollowUpDue  = "Follow-up reminder"
)

// Sender delivers notifications. The SMTP implementation is used when mail
// is configured; NoopSender otherwise.
type Sender interface {
	NotifyReassignment(ctx context.Context, officerEmail, officerName string, leadID uuid.UUID, dropReason, remarks string) error
	NotifyFollowUpDue(ctx context.Context, agentEmail, agentName string, leadID uuid.UUID) error
}

type NoopSender struct{}

func (NoopSender) NotifyReassignment(ctx context.Context, officerEmail, officerName string, leadID uuid.UUID, dropReason, remarks string) error {
	return nil
}

func (NoopSender) NotifyFollowUpDue(ctx context.Context, agentEmail, agentName string, leadID uuid.UUID) error {
	return nil
}
