package dto

// HealthResponse reports the state of each external dependency.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Transport string `json:"transport"`
}
