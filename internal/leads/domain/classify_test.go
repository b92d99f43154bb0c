package domain

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		lead Lead
		want LeadState
	}{
		{"fresh lead", Lead{Status: StatusNew, Tag: TagNotContacted}, StateNew},
		{"not connected", Lead{Status: StatusNotConnected, Tag: TagNotConnected}, StateNotConnected},
		{"follow up tag", Lead{Status: StatusNew, Tag: TagFollowUp}, StateFollowUp},
		{"missed tag", Lead{Status: StatusNew, Tag: TagMissed}, StateFollowUp},
		{"in progress status", Lead{Status: StatusInProgress, Tag: TagNotContacted}, StateFollowUp},
		{"closed status", Lead{Status: StatusClosed, Tag: TagClosed}, StateWon},
		{"won tag only", Lead{Status: StatusNew, Tag: TagWon}, StateWon},
		{"dropped status", Lead{Status: StatusDropped, Tag: TagDropped}, StateDropped},
		{"lost tag only", Lead{Status: StatusNew, Tag: TagLost}, StateDropped},
		{"not qualified status", Lead{Status: StatusNotQualified, Tag: TagNotContacted}, StateDropped},
		// status and tag can disagree; won wins over dropped by precedence
		{"conflicting won and dropped", Lead{Status: StatusClosed, Tag: TagDropped}, StateWon},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.lead); got != tc.want {
				t.Fatalf("Classify = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCurrentStageIndex(t *testing.T) {
	tests := []struct {
		name string
		lead Lead
		want int
	}{
		{"fresh lead", Lead{Status: StatusNew, Tag: TagNotContacted}, 0},
		{"not connected tag", Lead{Status: StatusNotConnected, Tag: TagNotConnected}, 1},
		{"follow up", Lead{Status: StatusInProgress, Tag: TagFollowUp}, 1},
		{"won", Lead{Status: StatusClosed, Tag: TagWon}, 2},
		{"dropped", Lead{Status: StatusDropped, Tag: TagDropped}, 3},
		{"not qualified", Lead{Status: StatusNotQualified, Tag: TagNotContacted}, 3},
		// precedence: won is checked before dropped
		{"won beats dropped", Lead{Status: StatusClosed, Tag: TagLost}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CurrentStageIndex(tc.lead); got != tc.want {
				t.Fatalf("CurrentStageIndex = %d, want %d", got, tc.want)
			}
		})
	}
}
