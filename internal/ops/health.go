package ops

import "time"

// HealthOutput is the liveness report.
type HealthOutput struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Health reports that the service is up.
func Health(d *Deps) *HealthOutput {
	return &HealthOutput{
		Status:    "healthy",
		Service:   ServiceName,
		Message:   "folio backend is running",
		Timestamp: d.now().Format(time.RFC3339),
	}
}
