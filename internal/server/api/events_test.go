package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/ayusman/handsign/internal/store"
)

func TestEventHandler(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC().Add(-time.Minute)
	for i, label := range []string{"FIST", "FIVE", "FIST", "OK"} {
		e := &store.Event{Label: label, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := s.Events().Create(e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	h := NewEventHandler(s)

	t.Run("list newest first", func(t *testing.T) {
		rec := do(t, http.HandlerFunc(h.List), http.MethodGet, "/api/events", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp listEventsResponse
		decode(t, rec, &resp)
		if len(resp.Events) != 4 {
			t.Fatalf("got %d events, want 4", len(resp.Events))
		}
		if resp.Events[0].Label != "OK" {
			t.Errorf("first event = %s, want OK", resp.Events[0].Label)
		}
	})

	t.Run("limit", func(t *testing.T) {
		rec := do(t, http.HandlerFunc(h.List), http.MethodGet, "/api/events?limit=2", "")
		var resp listEventsResponse
		decode(t, rec, &resp)
		if len(resp.Events) != 2 {
			t.Errorf("got %d events, want 2", len(resp.Events))
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		for _, q := range []string{"0", "-3", "many"} {
			rec := do(t, http.HandlerFunc(h.List), http.MethodGet, "/api/events?limit="+q, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("limit=%s: status = %d, want %d", q, rec.Code, http.StatusBadRequest)
			}
		}
	})

	t.Run("stats", func(t *testing.T) {
		rec := do(t, http.HandlerFunc(h.Stats), http.MethodGet, "/api/events/stats", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp statsResponse
		decode(t, rec, &resp)
		if resp.Total != 4 || resp.Counts["FIST"] != 2 || resp.Counts["OK"] != 1 {
			t.Errorf("unexpected stats: %+v", resp)
		}
	})
}
