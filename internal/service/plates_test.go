package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/platevision/platevision-go/internal/model"
	"github.com/platevision/platevision-go/internal/repository"
)

// fakePlateStore is an in-memory PlateStore for plate service tests.
type fakePlateStore struct {
	records   map[string][]model.PlateRecord
	createErr error
}

func newFakePlateStore() *fakePlateStore {
	return &fakePlateStore{records: make(map[string][]model.PlateRecord)}
}

func (f *fakePlateStore) Create(ctx context.Context, userID string, rec *model.PlateRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records[userID] = append([]model.PlateRecord{*rec}, f.records[userID]...)
	return nil
}

func (f *fakePlateStore) ListByUser(ctx context.Context, userID string) ([]model.PlateRecord, error) {
	return f.records[userID], nil
}

func (f *fakePlateStore) Delete(ctx context.Context, userID, id string) error {
	list := f.records[userID]
	for i, rec := range list {
		if rec.ID == id {
			f.records[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func TestPlateCreate_EmptyPlateNumber(t *testing.T) {
	svc := NewPlateService(newFakePlateStore())

	_, err := svc.Create(context.Background(), "u-1", model.CreatePlateRequest{
		ImageURL: "/uploads/x.jpg",
	})
	if !errors.Is(err, ErrPlateNumberRequired) {
		t.Errorf("expected ErrPlateNumberRequired, got %v", err)
	}
}

func TestPlateCreate_EmptyImageURL(t *testing.T) {
	svc := NewPlateService(newFakePlateStore())

	_, err := svc.Create(context.Background(), "u-1", model.CreatePlateRequest{
		PlateNumber: "AAA111",
	})
	if !errors.Is(err, ErrImageURLRequired) {
		t.Errorf("expected ErrImageURLRequired, got %v", err)
	}
}

func TestPlateCreate_AssignsIDAndCanonicalTimestamp(t *testing.T) {
	svc := NewPlateService(newFakePlateStore())
	fixed := time.Date(2026, 8, 15, 9, 30, 0, 0, time.FixedZone("CST", 8*3600))
	svc.now = func() time.Time { return fixed }

	rec, err := svc.Create(context.Background(), "u-1", model.CreatePlateRequest{
		PlateNumber: "AAA111",
		ImageURL:    "/uploads/x.jpg",
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if rec.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if rec.Timestamp != "2026-08-15T01:30:00Z" {
		t.Errorf("timestamp = %q, want canonical UTC RFC3339", rec.Timestamp)
	}
}

func TestPlateCreate_StoreError(t *testing.T) {
	store := newFakePlateStore()
	store.createErr = errors.New("db down")
	svc := NewPlateService(store)

	_, err := svc.Create(context.Background(), "u-1", model.CreatePlateRequest{
		PlateNumber: "AAA111",
		ImageURL:    "/uploads/x.jpg",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPlateDelete_Missing(t *testing.T) {
	svc := NewPlateService(newFakePlateStore())

	err := svc.Delete(context.Background(), "u-1", "no-such-id")
	if !errors.Is(err, repository.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPlateListAndDelete_RoundTrip(t *testing.T) {
	svc := NewPlateService(newFakePlateStore())
	ctx := context.Background()

	first, err := svc.Create(ctx, "u-1", model.CreatePlateRequest{PlateNumber: "AAA111", ImageURL: "/a.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(ctx, "u-1", model.CreatePlateRequest{PlateNumber: "BBB222", ImageURL: "/b.jpg"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, "u-1", first.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	records, err := svc.List(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ID != second.ID {
		t.Errorf("expected only %q to remain, got %+v", second.ID, records)
	}
}
