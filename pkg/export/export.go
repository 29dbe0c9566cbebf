package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/azvmotors/fleetcore/core/reservation"
)

// WriteJSON writes the journal records to w in JSON format.
func WriteJSON(w io.Writer, records []reservation.JournalRecord) error {
	enc := json.NewEncoder(w)
	return enc.Encode(records)
}

// WriteCSV writes the journal records to w in CSV format.
func WriteCSV(w io.Writer, records []reservation.JournalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "request_id", "vehicle_id", "flow", "duration", "unit", "outcome", "detail"}); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			r.Timestamp.Format(time.RFC3339),
			r.RequestID,
			strconv.FormatInt(r.VehicleID, 10),
			string(r.Flow),
			strconv.Itoa(r.Duration),
			r.Unit,
			string(r.Outcome),
			r.Detail,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
