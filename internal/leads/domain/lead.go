// Package domain provides core business rules for the leads bounded context.
// It is a pure decision module: operations take a lead snapshot and return a
// Decision describing field deltas and outbound commands. Persistence is the
// caller's job; nothing here performs I/O.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the business-level lead status used for reporting.
type Status string

const (
	// StatusUnchanged is a sentinel indicating that a decision intentionally
	// leaves the current status in place.
	StatusUnchanged Status = ""

	StatusNew          Status = "New"
	StatusNotConnected Status = "Not Connected"
	StatusInProgress   Status = "In Progress"
	StatusClosed       Status = "Closed"
	StatusLost         Status = "Lost"
	StatusDropped      Status = "Dropped"
	StatusNotQualified Status = "Not Qualified"
)

// Tag is the looser, UI-facing pipeline label. Its value set overlaps with
// Status but is not identical, and when a custom pipeline is attached the tag
// may also carry a free-form stage name.
type Tag string

const (
	// TagUnchanged is a sentinel indicating that a decision intentionally
	// leaves the current tag in place.
	TagUnchanged Tag = ""

	TagNotContacted Tag = "Not Contacted"
	TagNotConnected Tag = "Not Connected"
	TagFollowUp     Tag = "Follow Up"
	TagMissed       Tag = "Missed"
	TagWon          Tag = "Won"
	TagClosed       Tag = "Closed"
	TagLost         Tag = "Lost"
	TagDropped      Tag = "Dropped"
)

// Disposition is the outcome classification selected after a call attempt.
type Disposition string

const (
	DispositionInterested        Disposition = "Interested"
	DispositionNotInterested     Disposition = "Not Interested"
	DispositionFollowUpRequired  Disposition = "Follow-up Required"
	DispositionCallbackScheduled Disposition = "Callback Scheduled"
	DispositionDemoScheduled     Disposition = "Demo Scheduled"
	DispositionMeetingScheduled  Disposition = "Meeting Scheduled"
	DispositionQuotationSent     Disposition = "Quotation Sent"
	DispositionNegotiation       Disposition = "Negotiation"
	DispositionConverted         Disposition = "Converted / Sale Closed"
	DispositionLostLead          Disposition = "Lost Lead"
	DispositionCallDisconnected  Disposition = "Call Disconnected"
	DispositionWrongRequirement  Disposition = "Wrong Requirement"
	DispositionDuplicateLead     Disposition = "Duplicate Lead"
	DispositionDoNotCall         Disposition = "Do Not Call (DNC)"
)

// Dispositions lists every known call disposition.
var Dispositions = []Disposition{
	DispositionInterested,
	DispositionNotInterested,
	DispositionFollowUpRequired,
	DispositionCallbackScheduled,
	DispositionDemoScheduled,
	DispositionMeetingScheduled,
	DispositionQuotationSent,
	DispositionNegotiation,
	DispositionConverted,
	DispositionLostLead,
	DispositionCallDisconnected,
	DispositionWrongRequirement,
	DispositionDuplicateLead,
	DispositionDoNotCall,
}

// IsKnownDisposition reports whether d is one of the enumerated dispositions.
// Unknown values are still accepted by LogCallOutcome (they fall through to
// the not-connected branch); this exists for transport-layer validation only.
func IsKnownDisposition(d Disposition) bool {
	for _, known := range Dispositions {
		if d == known {
			return true
		}
	}
	return false
}

// Lead is the state snapshot the engine operates on. Status, Tag, CallCount
// and StageID are mutated only through the Decision values returned by the
// operations in this package.
type Lead struct {
	ID         uuid.UUID
	Status     Status
	Tag        Tag
	CallCount  int
	StageID    *uuid.UUID
	DropReason string
	Remarks    string
}

// AssignmentRules is read-only configuration consumed by CanDrop.
type AssignmentRules struct {
	MaxCallAttempts int
}

// CallAttempt is the input for a full disposition-bearing call log.
type CallAttempt struct {
	Disposition         Disposition
	Date                time.Time
	Note                string
	FollowTaskRequested bool
}

// CallResponse is the binary signal collected by the quick-dial action.
type CallResponse string

const (
	CallConnected    CallResponse = "connected"
	CallNotConnected CallResponse = "not connected"
)
