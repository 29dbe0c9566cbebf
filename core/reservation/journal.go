package reservation

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// JournalRecord captures one settled reservation attempt for audit.
type JournalRecord struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	VehicleID int64     `json:"vehicle_id"`
	Flow      Flow      `json:"flow"`
	Duration  int       `json:"duration"`
	Unit      string    `json:"unit"`
	Outcome   Outcome   `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
}

// JournalQuery defines filters for retrieving records.
type JournalQuery struct {
	Start     time.Time
	End       time.Time
	VehicleID int64
	Outcome   Outcome
}

// Journal persists JournalRecords and supports querying.
type Journal interface {
	Append(ctx context.Context, rec JournalRecord) error
	Query(ctx context.Context, q JournalQuery) ([]JournalRecord, error)
	Close() error
}

// JSONLJournal stores records in a JSONL file with automatic rotation.
// Rotated files sit beside the active one and are included in queries.
type JSONLJournal struct {
	writer *lumberjack.Logger
	path   string
	mu     sync.Mutex
}

// NewJSONLJournal returns a journal rotating at maxSizeMB megabytes, keeping
// at most maxBackups rotated files for maxAgeDays days. Zero values disable
// the corresponding limit.
func NewJSONLJournal(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLJournal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return &JSONLJournal{writer: lj, path: path}, nil
}

func (j *JSONLJournal) Append(ctx context.Context, rec JournalRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return json.NewEncoder(j.writer).Encode(rec)
}

// Query scans the active file and any rotated siblings.
func (j *JSONLJournal) Query(ctx context.Context, q JournalQuery) ([]JournalRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	files, err := filepath.Glob(j.path + "*")
	if err != nil {
		return nil, err
	}
	var res []JournalRecord
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			var r JournalRecord
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				continue
			}
			if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
				continue
			}
			if !q.End.IsZero() && r.Timestamp.After(q.End) {
				continue
			}
			if q.VehicleID != 0 && r.VehicleID != q.VehicleID {
				continue
			}
			if q.Outcome != "" && r.Outcome != q.Outcome {
				continue
			}
			res = append(res, r)
		}
		_ = f.Close()
	}
	return res, nil
}

func (j *JSONLJournal) Close() error { return j.writer.Close() }

// NopJournal discards all records.
type NopJournal struct{}

func (NopJournal) Append(context.Context, JournalRecord) error { return nil }
func (NopJournal) Query(context.Context, JournalQuery) ([]JournalRecord, error) {
	return nil, nil
}
func (NopJournal) Close() error { return nil }
