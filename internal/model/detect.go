package model

// CrackBox represents the bounding box of one detected defect.
type CrackBox struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// DetectResponse is the result of a detection run on an uploaded image.
type DetectResponse struct {
	Success     bool       `json:"success"`
	Cracks      []CrackBox `json:"cracks"`
	Suggestions []string   `json:"suggestions"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// SystemStatus holds one sample of host resource usage. Percentages are
// clamped to 0-100; any probe that fails reports 0.
type SystemStatus struct {
	CPU       int    `json:"cpu"`
	Memory    int    `json:"memory"`
	Disk      int    `json:"disk"`
	Timestamp string `json:"timestamp"`
	Platform  string `json:"platform"`
	Uptime    int64  `json:"uptime"`
}

// StatusResponse wraps a system status sample.
type StatusResponse struct {
	Success bool         `json:"success"`
	Data    SystemStatus `json:"data"`
}
