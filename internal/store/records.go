package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/platevision/platevision-go/internal/model"
)

// RecordDraft is the caller's view of a record to add. Timestamp may be
// empty, in which case the current time is used for the local copy.
type RecordDraft struct {
	PlateNumber string
	ImageURL    string
	Timestamp   string
}

// RecordStore holds the plate record history, newest first.
type RecordStore struct {
	api    API
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	records []model.PlateRecord
	loading bool
	filter  Filter
}

func NewRecordStore(api API, logger *slog.Logger) *RecordStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStore{api: api, logger: logger, now: time.Now, filter: FilterAll}
}

// FetchRecords replaces the record list with the server's. Transport
// failures leave the current list untouched; a response that is not a
// record array falls back to sample data so the history view is never
// silently blank.
func (s *RecordStore) FetchRecords(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	var raw json.RawMessage
	if err := s.api.Do(ctx, http.MethodGet, "/api/plates", nil, &raw); err != nil {
		s.logger.Warn("fetching records", "error", err)
		return
	}

	var records []model.PlateRecord
	if err := json.Unmarshal(raw, &records); err != nil || records == nil {
		s.logger.Warn("record payload not a list, using sample data")
		records = sampleRecords(s.now())
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

// AddRecord sends the draft to the server and prepends the result. When
// the server confirms with a stored record that one wins; otherwise a
// local placeholder with a fresh id is used.
func (s *RecordStore) AddRecord(ctx context.Context, draft RecordDraft) (model.PlateRecord, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	req := model.CreatePlateRequest{PlateNumber: draft.PlateNumber, ImageURL: draft.ImageURL}
	var resp model.PlateRecord
	if err := s.api.Do(ctx, http.MethodPost, "/api/plates", req, &resp); err != nil {
		return model.PlateRecord{}, err
	}

	var record model.PlateRecord
	if resp.ID != "" {
		record = resp
		record.Timestamp = NormalizeTimestamp(record.Timestamp)
	} else {
		ts := draft.Timestamp
		if ts == "" {
			ts = TimestampFromTime(s.now())
		}
		record = model.PlateRecord{
			ID:          uuid.NewString(),
			PlateNumber: draft.PlateNumber,
			Timestamp:   NormalizeTimestamp(ts),
			ImageURL:    draft.ImageURL,
		}
	}

	s.mu.Lock()
	s.records = append([]model.PlateRecord{record}, s.records...)
	s.mu.Unlock()
	return record, nil
}

// DeleteRecord removes a record on the server, then locally. On failure
// the local list is left exactly as it was and the error is returned.
func (s *RecordStore) DeleteRecord(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.Do(ctx, http.MethodDelete, "/api/plates/"+id, nil, nil); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.records[:0:0]
	for _, r := range s.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	s.mu.Unlock()
	return nil
}

// SetFilter selects the active time filter.
func (s *RecordStore) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Filter returns the active time filter.
func (s *RecordStore) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Records returns a copy of the current list, newest first.
func (s *RecordStore) Records() []model.PlateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PlateRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Filtered returns the current list narrowed by the active filter and the
// given plate number query.
func (s *RecordStore) Filtered(query string) []model.PlateRecord {
	s.mu.Lock()
	records := make([]model.PlateRecord, len(s.records))
	copy(records, s.records)
	filter := s.filter
	s.mu.Unlock()
	return FilterRecords(records, filter, query, s.now())
}

// IsLoading reports whether a store operation is in flight.
func (s *RecordStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *RecordStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// sampleRecords is the fallback history shown when the server responds
// with something other than a record list.
func sampleRecords(now time.Time) []model.PlateRecord {
	return []model.PlateRecord{
		{
			ID:          "1",
			PlateNumber: "京A12345",
			Timestamp:   TimestampFromTime(now),
			ImageURL:    "https://images.unsplash.com/photo-1581288869433-56a1059c47d8?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
		},
		{
			ID:          "2",
			PlateNumber: "粤B54321",
			Timestamp:   TimestampFromTime(now.Add(-24 * time.Hour)),
			ImageURL:    "https://images.unsplash.com/photo-1700493624968-74d01c22e704?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
		},
		{
			ID:          "3",
			PlateNumber: "沪C98765",
			Timestamp:   TimestampFromTime(now.Add(-72 * time.Hour)),
			ImageURL:    "https://images.unsplash.com/photo-1511919884226-fd3cad34687c?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
		},
	}
}
