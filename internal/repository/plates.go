package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/platevision/platevision-go/internal/model"
)

var ErrRecordNotFound = errors.New("plate record not found")

// PlateRepository handles plate record persistence.
type PlateRepository struct {
	db *sql.DB
}

// NewPlateRepository creates a new PlateRepository.
func NewPlateRepository(db *sql.DB) *PlateRepository {
	return &PlateRepository{db: db}
}

// Create inserts a new plate record for a user.
func (r *PlateRepository) Create(ctx context.Context, userID string, rec *model.PlateRecord) error {
	query := `INSERT INTO plates (id, user_id, plate_number, image_url, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, rec.ID, userID, rec.PlateNumber, rec.ImageURL, rec.Timestamp)
	return err
}

// ListByUser returns all of a user's records, newest first. Timestamps are
// RFC 3339 strings, so lexical order is chronological order.
func (r *PlateRepository) ListByUser(ctx context.Context, userID string) ([]model.PlateRecord, error) {
	query := `SELECT id, plate_number, image_url, created_at FROM plates WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.PlateRecord{}
	for rows.Next() {
		var rec model.PlateRecord
		if err := rows.Scan(&rec.ID, &rec.PlateNumber, &rec.ImageURL, &rec.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a user's record by ID.
func (r *PlateRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM plates WHERE user_id = ? AND id = ?`

	result, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
