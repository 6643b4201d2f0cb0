package dto

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Store     string `json:"store" example:"ok"`
	Timestamp int64  `json:"timestamp" example:"1740823200"`
}
