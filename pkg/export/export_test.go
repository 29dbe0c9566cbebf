package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/azvmotors/fleetcore/core/reservation"
)

func sampleRecords() []reservation.JournalRecord {
	return []reservation.JournalRecord{
		{
			Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
			RequestID: "r1",
			VehicleID: 42,
			Flow:      reservation.FlowStandard,
			Duration:  3,
			Unit:      "hours",
			Outcome:   reservation.OutcomeReserved,
		},
		{
			Timestamp: time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC),
			RequestID: "r2",
			VehicleID: 43,
			Flow:      reservation.FlowDelivery,
			Duration:  1,
			Unit:      "days",
			Outcome:   reservation.OutcomeGeofenceRejected,
			Detail:    "target outside service zone",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,request_id,vehicle_id") {
		t.Errorf("header = %s", lines[0])
	}
	if !strings.Contains(lines[2], "geofence_rejected") {
		t.Errorf("row = %s", lines[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"r1"`) || !strings.Contains(out, `"outcome":"reserved"`) {
		t.Errorf("unexpected output: %s", out)
	}
}
