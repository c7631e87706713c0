package model

// PlateRecord represents one detection/upload event in a user's history.
// Timestamp is always the canonical RFC 3339 UTC string form.
type PlateRecord struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plateNumber"`
	Timestamp   string `json:"timestamp"`
	ImageURL    string `json:"imageUrl"`
}

// CreatePlateRequest represents a record creation request.
type CreatePlateRequest struct {
	PlateNumber string `json:"plateNumber"`
	ImageURL    string `json:"imageUrl"`
}
