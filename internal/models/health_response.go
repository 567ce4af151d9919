package models

// HealthResponse reports the reachability of the backing services
type HealthResponse struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Timestamp string `json:"timestamp"`
}
