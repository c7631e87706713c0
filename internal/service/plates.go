package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/platevision/platevision-go/internal/model"
)

var (
	ErrPlateNumberRequired = errors.New("plateNumber is required")
	ErrImageURLRequired    = errors.New("imageUrl is required")
)

// PlateStore is the persistence port for plate records.
type PlateStore interface {
	Create(ctx context.Context, userID string, rec *model.PlateRecord) error
	ListByUser(ctx context.Context, userID string) ([]model.PlateRecord, error)
	Delete(ctx context.Context, userID, id string) error
}

// PlateService handles plate record business logic.
type PlateService struct {
	repo PlateStore
	now  func() time.Time
}

// NewPlateService creates a new PlateService.
func NewPlateService(repo PlateStore) *PlateService {
	return &PlateService{repo: repo, now: time.Now}
}

// List returns a user's records, newest first.
func (s *PlateService) List(ctx context.Context, userID string) ([]model.PlateRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create stores a new record, assigning its ID and canonical timestamp.
func (s *PlateService) Create(ctx context.Context, userID string, req model.CreatePlateRequest) (model.PlateRecord, error) {
	if req.PlateNumber == "" {
		return model.PlateRecord{}, ErrPlateNumberRequired
	}
	if req.ImageURL == "" {
		return model.PlateRecord{}, ErrImageURLRequired
	}

	rec := model.PlateRecord{
		ID:          uuid.NewString(),
		PlateNumber: req.PlateNumber,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		ImageURL:    req.ImageURL,
	}

	if err := s.repo.Create(ctx, userID, &rec); err != nil {
		return model.PlateRecord{}, err
	}
	return rec, nil
}

// Delete removes a user's record by ID.
func (s *PlateService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
