package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newLead() Lead {
	return Lead{
		ID:     uuid.New(),
		Status: StatusNew,
		Tag:    TagNotContacted,
	}
}

// Every disposition must land in exactly one classification class; the
// classes partition the disposition space.
func TestLogCallOutcome_ClassesArePartition(t *testing.T) {
	type pair struct {
		status Status
		tag    Tag
	}
	wantByClass := map[string]pair{
		"followup":  {StatusInProgress, TagFollowUp},
		"converted": {StatusClosed, TagClosed},
		"lost":      {StatusLost, TagLost},
		"fallback":  {StatusNotConnected, TagNotConnected},
	}

	classOf := map[Disposition]string{
		DispositionInterested:        "followup",
		DispositionFollowUpRequired:  "followup",
		DispositionCallbackScheduled: "followup",
		DispositionDemoScheduled:     "followup",
		DispositionMeetingScheduled:  "followup",
		DispositionQuotationSent:     "followup",
		DispositionNegotiation:       "followup",
		DispositionConverted:         "converted",
		DispositionNotInterested:     "lost",
		DispositionLostLead:          "lost",
		DispositionWrongRequirement:  "lost",
		DispositionDuplicateLead:     "lost",
		DispositionDoNotCall:         "fallback",
		DispositionCallDisconnected:  "fallback",
	}
	// Do Not Call (DNC) is class 3, not fallback.
	classOf[DispositionDoNotCall] = "lost"

	if len(classOf) != len(Dispositions) {
		t.Fatalf("expected %d dispositions classified, got %d", len(Dispositions), len(classOf))
	}

	for _, disp := range Dispositions {
		lead := newLead()
		d := LogCallOutcome(lead, CallAttempt{Disposition: disp})

		want := wantByClass[classOf[disp]]
		if d.Status != want.status || d.Tag != want.tag {
			t.Errorf("LogCallOutcome(%q) = {%s, %s}, want {%s, %s}",
				disp, d.Status, d.Tag, want.status, want.tag)
		}
		if d.CallDelta != 1 {
			t.Errorf("LogCallOutcome(%q) call delta = %d, want 1", disp, d.CallDelta)
		}
		if d.CallEntry == nil || d.CallEntry.Disposition != disp {
			t.Errorf("LogCallOutcome(%q) did not append a call entry", disp)
		}
	}
}

// The fallthrough class leaves status/tag untouched when the lead is already
// engaged or terminal.
func TestLogCallOutcome_DisconnectOnEngagedLeadIsInert(t *testing.T) {
	tests := []struct {
		name string
		lead Lead
	}{
		{"follow up tag", Lead{Status: StatusNew, Tag: TagFollowUp}},
		{"in progress status", Lead{Status: StatusInProgress, Tag: TagNotContacted}},
		{"closed", Lead{Status: StatusClosed, Tag: TagClosed}},
		{"lost", Lead{Status: StatusLost, Tag: TagLost}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := LogCallOutcome(tc.lead, CallAttempt{Disposition: DispositionCallDisconnected})
			if d.Status != StatusUnchanged || d.Tag != TagUnchanged {
				t.Fatalf("expected status/tag unchanged, got {%s, %s}", d.Status, d.Tag)
			}
			if d.CallDelta != 1 {
				t.Fatalf("expected call delta 1, got %d", d.CallDelta)
			}
		})
	}
}

// Unknown dispositions fall through instead of erroring.
func TestLogCallOutcome_UnknownDispositionFallsThrough(t *testing.T) {
	d := LogCallOutcome(newLead(), CallAttempt{Disposition: "Voicemail Left"})
	if d.Status != StatusNotConnected || d.Tag != TagNotConnected {
		t.Fatalf("expected fallthrough to Not Connected, got {%s, %s}", d.Status, d.Tag)
	}
}

// call_count after N calls of any disposition mix equals N exactly.
func TestCallCount_MonotonicAcrossMixedDispositions(t *testing.T) {
	lead := newLead()
	mix := []Disposition{
		DispositionCallDisconnected,
		DispositionInterested,
		DispositionCallDisconnected,
		DispositionQuotationSent,
		DispositionConverted,
	}

	for _, disp := range mix {
		d := LogCallOutcome(lead, CallAttempt{Disposition: disp})
		lead = Apply(lead, d)
	}

	if lead.CallCount != len(mix) {
		t.Fatalf("expected call_count %d after %d calls, got %d", len(mix), len(mix), lead.CallCount)
	}
}

func TestHitCall_Connected(t *testing.T) {
	lead := newLead()
	d := HitCall(lead, CallConnected)
	lead = Apply(lead, d)

	if lead.Status != StatusInProgress || lead.Tag != TagFollowUp {
		t.Fatalf("expected {In Progress, Follow Up}, got {%s, %s}", lead.Status, lead.Tag)
	}
	if lead.CallCount != 1 {
		t.Fatalf("expected call_count 1, got %d", lead.CallCount)
	}
}

// New lead → connected hit → converted call: the end-to-end happy path.
func TestLifecycle_ConnectedThenConverted(t *testing.T) {
	lead := newLead()

	lead = Apply(lead, HitCall(lead, CallConnected))
	if lead.Status != StatusInProgress || lead.Tag != TagFollowUp || lead.CallCount != 1 {
		t.Fatalf("after hit call: got {%s, %s, %d}", lead.Status, lead.Tag, lead.CallCount)
	}

	lead = Apply(lead, LogCallOutcome(lead, CallAttempt{Disposition: DispositionConverted}))
	if lead.Status != StatusClosed || lead.Tag != TagClosed || lead.CallCount != 2 {
		t.Fatalf("after converted call: got {%s, %s, %d}", lead.Status, lead.Tag, lead.CallCount)
	}
}

// Repeated not-connected hits re-apply the same pair: the exclusion set does
// not contain "Not Connected" itself, so the second hit is idempotent by
// coincidence rather than by guard.
func TestLifecycle_RepeatedNotConnectedHits(t *testing.T) {
	lead := newLead()

	lead = Apply(lead, HitCall(lead, CallNotConnected))
	if lead.Status != StatusNotConnected || lead.Tag != TagNotConnected || lead.CallCount != 1 {
		t.Fatalf("after first hit: got {%s, %s, %d}", lead.Status, lead.Tag, lead.CallCount)
	}

	d := HitCall(lead, CallNotConnected)
	if d.Status != StatusNotConnected || d.Tag != TagNotConnected {
		t.Fatalf("second hit should re-set Not Connected, got {%s, %s}", d.Status, d.Tag)
	}
	lead = Apply(lead, d)
	if lead.Status != StatusNotConnected || lead.CallCount != 2 {
		t.Fatalf("after second hit: got {%s, %d}", lead.Status, lead.CallCount)
	}
}

func TestDropLead_ValidationGuards(t *testing.T) {
	rules := AssignmentRules{MaxCallAttempts: 0}

	tests := []struct {
		name    string
		req     DropRequest
		wantErr error
	}{
		{"empty reason", DropRequest{Reason: "", Remarks: "non-empty", Confirmed: true}, ErrDropReasonRequired},
		{"empty remarks", DropRequest{Reason: "non-empty", Remarks: "", Confirmed: true}, ErrDropRemarksRequired},
		{"blank remarks", DropRequest{Reason: "non-empty", Remarks: "   ", Confirmed: true}, ErrDropRemarksRequired},
		{"unconfirmed", DropRequest{Reason: "Budget Issue", Remarks: "No funds", Confirmed: false}, ErrDropNotConfirmed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lead := newLead()
			d, err := DropLead(lead, tc.req, rules)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if d.Mutates() {
				t.Fatal("rejected drop must not produce a mutating decision")
			}
		})
	}
}

func TestDropLead_ConfirmedDropEmitsReassignment(t *testing.T) {
	lead := newLead()
	lead.Tag = TagFollowUp // drop-eligible via follow-up

	d, err := DropLead(lead, DropRequest{Reason: "Budget Issue", Remarks: "No funds", Confirmed: true}, AssignmentRules{MaxCallAttempts: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Status != StatusDropped || d.Tag != TagDropped {
		t.Fatalf("expected {Dropped, Dropped}, got {%s, %s}", d.Status, d.Tag)
	}
	if d.DropReason != "Budget Issue" || d.Remarks != "No funds" {
		t.Fatalf("expected reason/remarks persisted, got %q/%q", d.DropReason, d.Remarks)
	}
	if d.Reassign == nil {
		t.Fatal("expected a reassignment command")
	}
	if d.Reassign.ToRole != InvestigationOfficerRole {
		t.Fatalf("expected reassignment to %q, got %q", InvestigationOfficerRole, d.Reassign.ToRole)
	}
	if d.Reassign.LeadID != lead.ID {
		t.Fatalf("reassignment targets lead %s, want %s", d.Reassign.LeadID, lead.ID)
	}
}

func TestDropLead_RejectedWhenNotEligible(t *testing.T) {
	lead := newLead()
	lead.CallCount = 2

	_, err := DropLead(lead, DropRequest{Reason: "r", Remarks: "m", Confirmed: true}, AssignmentRules{MaxCallAttempts: 5})
	if !errors.Is(err, ErrDropNotEligible) {
		t.Fatalf("expected ErrDropNotEligible, got %v", err)
	}
}

func TestCanDrop(t *testing.T) {
	rules := AssignmentRules{MaxCallAttempts: 5}

	tests := []struct {
		name string
		lead Lead
		want bool
	}{
		{"below budget, not contacted", Lead{CallCount: 4, Tag: TagNotContacted}, false},
		{"budget reached", Lead{CallCount: 5, Tag: TagNotContacted}, true},
		{"follow up regardless of count", Lead{CallCount: 0, Tag: TagFollowUp}, true},
		{"in progress status counts as follow up", Lead{CallCount: 0, Status: StatusInProgress}, true},
		{"missed tag counts as follow up", Lead{CallCount: 0, Tag: TagMissed}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanDrop(tc.lead, rules); got != tc.want {
				t.Fatalf("CanDrop = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMoveToStage(t *testing.T) {
	stageID := uuid.New()

	tests := []struct {
		name       string
		target     StageTarget
		wantStatus Status
		wantTag    Tag
		wantSignal Signal
		wantStage  bool
	}{
		{"not qualified opens drop flow", StageTarget{Status: "Not Qualified"}, StatusUnchanged, TagUnchanged, SignalOpenDropFlow, false},
		{"in progress moves to follow up", StageTarget{ID: &stageID, Status: "In Progress"}, StatusInProgress, TagFollowUp, SignalNone, true},
		{"won closes the lead", StageTarget{ID: &stageID, Status: "Won"}, StatusClosed, TagWon, SignalNone, true},
		{"not connected opens call flow", StageTarget{Status: "Not Connected"}, StatusUnchanged, TagUnchanged, SignalOpenCallFlow, false},
		{"new lead opens call flow", StageTarget{Status: "New Lead"}, StatusUnchanged, TagUnchanged, SignalOpenCallFlow, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := MoveToStage(newLead(), tc.target)
			if d.Status != tc.wantStatus || d.Tag != tc.wantTag {
				t.Fatalf("got {%s, %s}, want {%s, %s}", d.Status, d.Tag, tc.wantStatus, tc.wantTag)
			}
			if d.Signal != tc.wantSignal {
				t.Fatalf("got signal %q, want %q", d.Signal, tc.wantSignal)
			}
			if (d.StageID != nil) != tc.wantStage {
				t.Fatalf("stage id set = %v, want %v", d.StageID != nil, tc.wantStage)
			}
		})
	}
}

// A "Not Qualified" click never mutates, even on a fresh lead; the drop flow
// collects reason and remarks first.
func TestMoveToStage_NotQualifiedNeverMutates(t *testing.T) {
	d := MoveToStage(newLead(), StageTarget{Status: "Not Qualified"})
	if d.Mutates() {
		t.Fatal("Not Qualified stage click must not mutate the lead")
	}
}

// Terminal-state immutability is not enforced: a Won lead clicked back into
// an In Progress stage moves. Preserved as current behavior.
func TestMoveToStage_TerminalLeadIsStillMovable(t *testing.T) {
	lead := newLead()
	lead.Status = StatusClosed
	lead.Tag = TagWon

	d := MoveToStage(lead, StageTarget{Status: "In Progress"})
	if d.Status != StatusInProgress || d.Tag != TagFollowUp {
		t.Fatalf("expected won lead to remain movable, got {%s, %s}", d.Status, d.Tag)
	}
}
