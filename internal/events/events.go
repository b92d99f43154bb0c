package events

import "github.com/google/uuid"

// LeadDropped is consumed in-process by the assignment module. The remaining
// events are the engine's outbound contract: published for audit trails and
// future consumers, with no subscriber wired today.

// LeadCreated fires when a new lead enters the system.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID
}

// EventName returns the event identifier.
func (LeadCreated) EventName() string { return "lead.created" }

// CallLogged fires after a call attempt is persisted against a lead.
type CallLogged struct {
	BaseEvent
	LeadID      uuid.UUID
	CallID      uuid.UUID
	Disposition string
	NewStatus   string
	NewTag      string
}

// EventName returns the event identifier.
func (CallLogged) EventName() string { return "lead.call_logged" }

// LeadStageChanged fires when a manual stage click mutates the lead.
type LeadStageChanged struct {
	BaseEvent
	LeadID    uuid.UUID
	StageID   *uuid.UUID
	NewStatus string
	NewTag    string
}

// EventName returns the event identifier.
func (LeadStageChanged) EventName() string { return "lead.stage_changed" }

// LeadDropped fires after a confirmed drop is persisted. The assignment
// module consumes it to fulfill the reassignment command.
type LeadDropped struct {
	BaseEvent
	LeadID     uuid.UUID
	DropReason string
	Remarks    string
	ToRole     string
}

// EventName returns the event identifier.
func (LeadDropped) EventName() string { return "lead.dropped" }

// LeadReassigned fires once a dropped lead has been handed to the
// investigation officer.
type LeadReassigned struct {
	BaseEvent
	LeadID    uuid.UUID
	OfficerID uuid.UUID
}

// EventName returns the event identifier.
func (LeadReassigned) EventName() string { return "lead.reassigned" }
