package handler

// ArchivedCallResponse represents an archived call in API responses
type ArchivedCallResponse struct {
	CallID          int64  `json:"call_id"`
	Source          string `json:"source"`
	Destination     string `json:"destination"`
	StartedAt       string `json:"started_at"`
	EndedAt         string `json:"ended_at"`
	ReferencePeriod string `json:"reference_period"`
	Duration        int64  `json:"duration"`
	Price           int64  `json:"price"`
	CallDuration    string `json:"call_duration"`
	CallPrice       string `json:"call_price"`
	ArchivedAt      string `json:"archived_at"`
}
