package service

import (
	"testing"
	"time"

	"leadflow_backend/internal/leads/transport"
)

// The note column on call_logs is NOT NULL, so a request without a note must
// map to the empty string, never to a NULL parameter.
func TestCallLogParams(t *testing.T) {
	callDate := time.Date(2026, 8, 12, 10, 30, 0, 0, time.UTC)

	t.Run("empty note stores empty string", func(t *testing.T) {
		params := callLogParams(transport.LogCallRequest{
			Disposition: "Call Disconnected",
		})
		if params.Note != "" {
			t.Fatalf("expected empty note, got %q", params.Note)
		}
		if params.Disposition != "Call Disconnected" {
			t.Fatalf("expected disposition carried through, got %q", params.Disposition)
		}
		if !params.CallDate.IsZero() {
			t.Fatalf("expected zero call date so the store defaults it, got %v", params.CallDate)
		}
	})

	t.Run("note and date carried through", func(t *testing.T) {
		params := callLogParams(transport.LogCallRequest{
			Disposition:         "Interested",
			Note:                "wants a demo next week",
			Date:                &callDate,
			FollowTaskRequested: true,
		})
		if params.Note != "wants a demo next week" {
			t.Fatalf("expected note carried through, got %q", params.Note)
		}
		if !params.CallDate.Equal(callDate) {
			t.Fatalf("expected call date %v, got %v", callDate, params.CallDate)
		}
		if !params.FollowTaskRequested {
			t.Fatalf("expected follow task flag carried through")
		}
	})
}
