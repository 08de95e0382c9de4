package domain

// Ack is the response to a single-file mutation (upload or delete).
type Ack struct {
	// Message is the backend's confirmation text.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Data carries any extra fields the backend returned.
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// IngestAck is the response to adding documents to the knowledge base.
type IngestAck struct {
	// TaskID identifies the ingestion task that was queued.
	TaskID string `json:"task_id" yaml:"task_id"`

	// Message is the backend's confirmation text.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// DeletionReport is the response to a bulk document deletion.
type DeletionReport struct {
	// Successful is the number of documents removed.
	Successful int `json:"successful_deletions" yaml:"successful_deletions"`

	// Failed is the number of documents that could not be removed.
	Failed int `json:"failed_deletions" yaml:"failed_deletions"`

	// Message is the backend's summary text, if any.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Health is the backend health check payload.
type Health struct {
	Status string `json:"status" yaml:"status"`
}
