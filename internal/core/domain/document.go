package domain

// DocumentRecord is a file that has been promoted into the knowledge base.
type DocumentRecord struct {
	// OriginalPath is the path of the source file. It is the unique key.
	OriginalPath string `json:"original_path" yaml:"original_path"`

	// FileName is the display name.
	FileName string `json:"file_name" yaml:"file_name"`

	// FileType is the extension or MIME family reported by the backend.
	FileType string `json:"file_type" yaml:"file_type"`

	// Status is the ingestion status.
	Status Status `json:"status" yaml:"status"`

	// ChunksCount is the number of indexed chunks.
	ChunksCount int `json:"chunks_count" yaml:"chunks_count"`

	// FileSize is the size in bytes, when known.
	FileSize *int64 `json:"file_size,omitempty" yaml:"file_size,omitempty"`

	// AddTime is when the document was added, when known.
	AddTime *Timestamp `json:"add_time,omitempty" yaml:"add_time,omitempty"`
}

// KnowledgeStats summarises a document list.
type KnowledgeStats struct {
	// Documents is the total number of documents.
	Documents int `json:"documents" yaml:"documents"`

	// Chunks is the sum of chunk counts.
	Chunks int `json:"chunks" yaml:"chunks"`

	// Completed is the number of fully indexed documents.
	Completed int `json:"completed" yaml:"completed"`

	// Processing is the number of documents still being ingested.
	Processing int `json:"processing" yaml:"processing"`

	// Failed is the number of documents whose ingestion failed.
	Failed int `json:"failed" yaml:"failed"`
}

// ComputeKnowledgeStats aggregates docs into KnowledgeStats.
func ComputeKnowledgeStats(docs []DocumentRecord) KnowledgeStats {
	stats := KnowledgeStats{Documents: len(docs)}
	for _, d := range docs {
		stats.Chunks += d.ChunksCount
		switch d.Status {
		case StatusCompleted:
			stats.Completed++
		case StatusProcessing:
			stats.Processing++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats
}

// DocumentPaths returns the OriginalPath of every record, preserving order.
func DocumentPaths(docs []DocumentRecord) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.OriginalPath
	}
	return ids
}
