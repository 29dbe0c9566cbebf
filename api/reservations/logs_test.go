package reservations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/azvmotors/fleetcore/core/reservation"
)

type memJournal struct{ recs []reservation.JournalRecord }

func (m *memJournal) Append(ctx context.Context, r reservation.JournalRecord) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memJournal) Query(ctx context.Context, q reservation.JournalQuery) ([]reservation.JournalRecord, error) {
	var res []reservation.JournalRecord
	for _, r := range m.recs {
		if q.VehicleID != 0 && r.VehicleID != q.VehicleID {
			continue
		}
		if q.Outcome != "" && r.Outcome != q.Outcome {
			continue
		}
		res = append(res, r)
	}
	return res, nil
}

func (m *memJournal) Close() error { return nil }

func seedJournal(t *testing.T) *memJournal {
	t.Helper()
	j := &memJournal{}
	recs := []reservation.JournalRecord{
		{Timestamp: time.Now(), RequestID: "r1", VehicleID: 1, Flow: reservation.FlowStandard, Outcome: reservation.OutcomeReserved},
		{Timestamp: time.Now(), RequestID: "r2", VehicleID: 2, Flow: reservation.FlowDelivery, Outcome: reservation.OutcomeGeofenceRejected},
	}
	for _, r := range recs {
		if err := j.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return j
}

func TestLogHandler_AuthAndFilters(t *testing.T) {
	h := NewLogHandler(seedJournal(t), "secret")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reservations/logs", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reservations/logs?vehicle_id=2", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got []reservation.JournalRecord
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].RequestID != "r2" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestLogHandler_OutcomeFilter(t *testing.T) {
	h := NewLogHandler(seedJournal(t), "")

	req := httptest.NewRequest(http.MethodGet, "/api/reservations/logs?outcome=reserved", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got []reservation.JournalRecord
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Outcome != reservation.OutcomeReserved {
		t.Fatalf("unexpected records: %+v", got)
	}
}
