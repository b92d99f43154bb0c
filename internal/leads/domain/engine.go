package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// InvestigationOfficerRole is the role every dropped lead is reassigned to.
const InvestigationOfficerRole = "leads_investigation_officer"

var (
	ErrDropReasonRequired  = errors.New("drop reason is required")
	ErrDropRemarksRequired = errors.New("drop remarks are required")
	ErrDropNotConfirmed    = errors.New("drop must be confirmed")
	ErrDropNotEligible     = errors.New("lead is not eligible for drop yet")
)

// Signal asks the caller to open a follow-on flow instead of mutating state.
type Signal string

const (
	SignalNone         Signal = ""
	SignalOpenDropFlow Signal = "open_drop_flow"
	SignalOpenCallFlow Signal = "open_call_flow"
)

// ReassignCommand is an outbound request for the external assignment service.
// The engine only emits it; dispatch happens in the service layer.
type ReassignCommand struct {
	LeadID uuid.UUID
	ToRole string
}

// Decision is the computed outcome of a lifecycle operation. Sentinel values
// (StatusUnchanged, TagUnchanged, nil StageID) mean "leave as is"; the caller
// applies whatever is set in a single store write.
type Decision struct {
	Status     Status
	Tag        Tag
	StageID    *uuid.UUID
	CallDelta  int
	DropReason string
	Remarks    string
	CallEntry  *CallAttempt
	Signal     Signal
	Reassign   *ReassignCommand
	Message    string
}

// Mutates reports whether applying the decision changes any persisted field.
func (d Decision) Mutates() bool {
	return d.Status != StatusUnchanged || d.Tag != TagUnchanged ||
		d.StageID != nil || d.CallDelta != 0 ||
		d.DropReason != "" || d.Remarks != ""
}

// followUpDispositions are the class-1 outcomes: the conversation is alive
// and the lead moves to follow-up.
var followUpDispositions = map[Disposition]bool{
	DispositionInterested:        true,
	DispositionFollowUpRequired:  true,
	DispositionCallbackScheduled: true,
	DispositionDemoScheduled:     true,
	DispositionMeetingScheduled:  true,
	DispositionQuotationSent:     true,
	DispositionNegotiation:       true,
}

// lostDispositions are the class-3 outcomes: the lead is gone.
var lostDispositions = map[Disposition]bool{
	DispositionNotInterested:    true,
	DispositionLostLead:         true,
	DispositionWrongRequirement: true,
	DispositionDuplicateLead:    true,
	DispositionDoNotCall:        true,
}

// LogCallOutcome classifies a full call disposition. Exactly one of the three
// status/tag pairs applies, or nothing changes under the fallthrough
// condition; the call count always advances by one and the attempt is
// appended to the call log.
//
// Classification is first-match-wins in the order follow-up, converted, lost,
// fallthrough. Any disposition outside the three named classes (including
// unknown strings) lands in the fallthrough, which only re-marks the lead
// Not Connected when it is not already in an engaged or terminal state. Note
// the exclusion set deliberately omits "Not Connected" itself: repeated
// disconnects re-apply the same pair, which is idempotent by coincidence, not
// by guard.
func LogCallOutcome(lead Lead, call CallAttempt) Decision {
	d := Decision{
		CallDelta: 1,
		CallEntry: &call,
	}

	switch {
	case followUpDispositions[call.Disposition]:
		d.Status = StatusInProgress
		d.Tag = TagFollowUp
		d.Message = "Lead moved to Follow Up"
	case call.Disposition == DispositionConverted:
		d.Status = StatusClosed
		d.Tag = TagClosed
		d.Message = "Lead marked as Closed"
	case lostDispositions[call.Disposition]:
		d.Status = StatusLost
		d.Tag = TagLost
		d.Message = "Lead marked as Lost"
	default:
		if !inAnyState(lead, "Follow Up", "In Progress", "Connected", "Closed", "Lost") {
			d.Status = StatusNotConnected
			d.Tag = TagNotConnected
			d.Message = "Lead marked as Not Connected"
		} else {
			d.Message = "Call logged"
		}
	}

	return d
}

// HitCall handles the quick-dial action, which only collects a binary
// connected signal. The call count advances regardless of outcome.
func HitCall(lead Lead, response CallResponse) Decision {
	d := Decision{CallDelta: 1}

	if response == CallConnected {
		d.Status = StatusInProgress
		d.Tag = TagFollowUp
		d.Message = "Lead moved to Follow Up"
		return d
	}

	if !inAnyState(lead, "Follow Up", "In Progress", "Connected") {
		d.Status = StatusNotConnected
		d.Tag = TagNotConnected
		d.Message = "Lead marked as Not Connected"
	} else {
		d.Message = "Call logged"
	}
	return d
}

// StageTarget describes the stage a user clicked. For pipeline-driven stages
// ID is set and Status comes from the is_final flag ("Won" or "In Progress");
// for the default model Status carries the default stage semantics.
type StageTarget struct {
	ID     *uuid.UUID
	Name   string
	Status string
}

// MoveToStage handles a manual pipeline click. "Not Qualified", "Not
// Connected" and "New Lead" targets never mutate directly: the first opens
// the drop flow (a drop needs reason and remarks first), the other two open
// the call-logging flow because those states must be reached through an
// actual call attempt. Terminal leads are not special-cased; a Won or Dropped
// lead can still be clicked into another stage.
func MoveToStage(lead Lead, target StageTarget) Decision {
	var d Decision

	switch target.Status {
	case string(StatusNotQualified):
		d.Signal = SignalOpenDropFlow
		return d
	case string(StatusInProgress):
		d.Status = StatusInProgress
		d.Tag = TagFollowUp
		d.Message = "Lead moved to Follow Up"
	case string(TagWon):
		d.Status = StatusClosed
		d.Tag = TagWon
		d.Message = "Lead marked as Won"
	case string(StatusNotConnected), "New Lead":
		d.Signal = SignalOpenCallFlow
		return d
	default:
		return d
	}

	if target.ID != nil {
		id := *target.ID
		d.StageID = &id
	}
	return d
}

// DropRequest carries the mandatory inputs for dropping a lead. Confirmed
// models the two-step confirmation as a domain rule rather than a UI
// nicety: dropping is irreversible and triggers reassignment.
type DropRequest struct {
	Reason    string
	Remarks   string
	Confirmed bool
}

// DropLead validates and computes the irrevocable disqualification of a
// lead. On any validation failure no decision is produced and no side
// effects may fire. The returned decision carries an explicit reassignment
// command for the investigation officer role.
func DropLead(lead Lead, req DropRequest, rules AssignmentRules) (Decision, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return Decision{}, ErrDropReasonRequired
	}
	if strings.TrimSpace(req.Remarks) == "" {
		return Decision{}, ErrDropRemarksRequired
	}
	if !req.Confirmed {
		return Decision{}, ErrDropNotConfirmed
	}
	if !CanDrop(lead, rules) {
		return Decision{}, ErrDropNotEligible
	}

	return Decision{
		Status:     StatusDropped,
		Tag:        TagDropped,
		DropReason: req.Reason,
		Remarks:    req.Remarks,
		Reassign: &ReassignCommand{
			LeadID: lead.ID,
			ToRole: InvestigationOfficerRole,
		},
		Message: "Lead dropped",
	}, nil
}

// Apply returns the lead with the decision's deltas applied. Used by the
// service layer to refresh its in-memory copy after the store write succeeds.
func Apply(lead Lead, d Decision) Lead {
	if d.Status != StatusUnchanged {
		lead.Status = d.Status
	}
	if d.Tag != TagUnchanged {
		lead.Tag = d.Tag
	}
	if d.StageID != nil {
		lead.StageID = d.StageID
	}
	if d.DropReason != "" {
		lead.DropReason = d.DropReason
	}
	if d.Remarks != "" {
		lead.Remarks = d.Remarks
	}
	lead.CallCount += d.CallDelta
	return lead
}
