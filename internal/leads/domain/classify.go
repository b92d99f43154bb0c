package domain

// LeadState is the collapsed tagged-union view over the semi-redundant
// status/tag pair. Decision logic works off Classify rather than re-deriving
// boolean expressions at every call site; the legacy status and tag strings
// remain the persisted representation.
type LeadState int

const (
	StateNew LeadState = iota
	StateNotConnected
	StateFollowUp
	StateWon
	StateDropped
)

func (s LeadState) String() string {
	switch s {
	case StateNotConnected:
		return "not_connected"
	case StateFollowUp:
		return "follow_up"
	case StateWon:
		return "won"
	case StateDropped:
		return "dropped"
	default:
		return "new"
	}
}

// IsFollowUp reports whether the lead is in an active follow-up state.
func IsFollowUp(lead Lead) bool {
	return lead.Tag == TagFollowUp || lead.Tag == TagMissed || lead.Status == StatusInProgress
}

// IsWon reports whether the lead converted.
func IsWon(lead Lead) bool {
	return lead.Status == StatusClosed || lead.Tag == TagWon
}

// IsDropped reports whether the lead is disqualified, lost, or dropped.
func IsDropped(lead Lead) bool {
	return lead.Status == StatusDropped ||
		lead.Tag == TagLost || lead.Tag == TagDropped ||
		lead.Status == StatusNotQualified
}

// Classify resolves the status/tag pair into a single LeadState. The three
// predicates are not mutually exclusive; precedence is won, then dropped,
// then follow-up. A lead that is simultaneously won and dropped (the two
// fields can disagree, nothing guards against it) classifies as won.
func Classify(lead Lead) LeadState {
	switch {
	case IsWon(lead):
		return StateWon
	case IsDropped(lead):
		return StateDropped
	case IsFollowUp(lead) || lead.Tag == TagNotConnected:
		if lead.Tag == TagNotConnected && !IsFollowUp(lead) {
			return StateNotConnected
		}
		return StateFollowUp
	default:
		return StateNew
	}
}

// CurrentStageIndex maps the lead onto the default 4-stage model:
// 0 = Not Contacted, 1 = Contacted, 2 = Closed, 3 = Lost.
func CurrentStageIndex(lead Lead) int {
	switch {
	case IsWon(lead):
		return 2
	case IsDropped(lead):
		return 3
	case IsFollowUp(lead) || lead.Tag == TagNotConnected:
		return 1
	default:
		return 0
	}
}

// CanDrop reports whether the drop action is available: either the call
// attempt budget is exhausted or the lead is already in follow-up.
func CanDrop(lead Lead, rules AssignmentRules) bool {
	return lead.CallCount >= rules.MaxCallAttempts || IsFollowUp(lead)
}

// inAnyState checks lead membership in a mixed status/tag vocabulary. The
// exclusion sets in the call-outcome rules name statuses and tags in one
// breath ("Follow Up" is a tag, "In Progress" a status, "Connected" neither),
// so membership is tested against both fields.
func inAnyState(lead Lead, states ...string) bool {
	for _, s := range states {
		if string(lead.Status) == s || string(lead.Tag) == s {
			return true
		}
	}
	return false
}
