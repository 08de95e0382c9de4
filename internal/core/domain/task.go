package domain

// TaskRecord is a background ingestion or deletion job tracked by the backend.
type TaskRecord struct {
	// TaskID is the unique identifier.
	TaskID string `json:"task_id" yaml:"task_id"`

	// TaskType is the job kind, e.g. "ingestion" or "deletion".
	TaskType string `json:"task_type" yaml:"task_type"`

	// Status is the job status.
	Status Status `json:"status" yaml:"status"`

	// Progress is the completion percentage, 0 to 100.
	Progress int `json:"progress" yaml:"progress"`

	// FilePath is the file the job operates on, if any.
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`

	// StartTime is when the job started.
	StartTime *Timestamp `json:"start_time,omitempty" yaml:"start_time,omitempty"`

	// EndTime is when the job reached a terminal status.
	EndTime *Timestamp `json:"end_time,omitempty" yaml:"end_time,omitempty"`

	// LastUpdate is when the backend last touched the record.
	LastUpdate *Timestamp `json:"last_update,omitempty" yaml:"last_update,omitempty"`

	// Message is a human-readable progress note.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// ErrorMessage is set when the job failed.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// ClampedProgress returns Progress limited to the 0 to 100 range.
func (t TaskRecord) ClampedProgress() int {
	return ClampProgress(t.Progress)
}

// StatusLine returns the line shown under a task: its message, its error,
// or a placeholder when neither is set.
func (t TaskRecord) StatusLine() string {
	switch {
	case t.Message != "":
		return t.Message
	case t.ErrorMessage != "":
		return "Error: " + t.ErrorMessage
	default:
		return "No status message"
	}
}

// ClampProgress limits p to the 0 to 100 range.
func ClampProgress(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// StatusCount is the number of tasks in one status.
type StatusCount struct {
	Status Status `json:"status" yaml:"status"`
	Count  int    `json:"count" yaml:"count"`
}

// CountByStatus returns one entry per known status, in lifecycle order.
// Records with an unrecognised status are not counted.
func CountByStatus(tasks []TaskRecord) []StatusCount {
	all := AllStatuses()
	index := make(map[Status]int, len(all))
	counts := make([]StatusCount, len(all))
	for i, s := range all {
		index[s] = i
		counts[i] = StatusCount{Status: s}
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			counts[i].Count++
		}
	}
	return counts
}

// ActiveTasks returns the number of tasks that are not in a terminal status.
func ActiveTasks(tasks []TaskRecord) int {
	n := 0
	for _, t := range tasks {
		if !t.Status.IsTerminal() {
			n++
		}
	}
	return n
}
