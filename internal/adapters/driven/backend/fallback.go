package backend

import (
	"fmt"
	"time"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// Fallback payloads returned when the backend cannot be reached.
// Mutating operations say "(Mock)" in their message so the operator can
// tell the result is simulated.

const (
	fallbackUploadMessage = "File uploaded successfully (Mock Mode)"
	fallbackDeleteMessage = "Deleted (Mock)"
	fallbackIngestMessage = "Documents added to queue (Mock)"
)

const day = 24 * time.Hour

func ptr[T any](v T) *T {
	return &v
}

func fallbackHealth() healthResponse {
	return healthResponse{Status: "healthy"}
}

func fallbackFiles(now time.Time) filesResponse {
	return filesResponse{
		Files: []domain.FileRecord{
			{Name: "company_handbook.pdf", Path: "/uploads/company_handbook.pdf", Size: 2450000, Modified: domain.NewTimestamp(now)},
			{Name: "project_specs.docx", Path: "/uploads/project_specs.docx", Size: 12000, Modified: domain.NewTimestamp(now.Add(-day))},
			{Name: "notes.txt", Path: "/uploads/notes.txt", Size: 450, Modified: domain.NewTimestamp(now.Add(-2 * day))},
		},
	}
}

func fallbackUpload(name string) ackResponse {
	return ackResponse{
		Message: fallbackUploadMessage,
		Data:    map[string]any{"filename": name},
	}
}

func fallbackDelete() ackResponse {
	return ackResponse{Message: fallbackDeleteMessage}
}

func fallbackDocuments(now time.Time) documentsResponse {
	ts := ptr(domain.NewTimestamp(now))
	return documentsResponse{
		Documents: []domain.DocumentRecord{
			{
				OriginalPath: "/uploads/company_handbook.pdf",
				FileName:     "company_handbook.pdf",
				FileType:     "pdf",
				Status:       domain.StatusCompleted,
				ChunksCount:  145,
				FileSize:     ptr(int64(2450000)),
				AddTime:      ts,
			},
			{
				OriginalPath: "/uploads/project_specs.docx",
				FileName:     "project_specs.docx",
				FileType:     "docx",
				Status:       domain.StatusProcessing,
				FileSize:     ptr(int64(12000)),
				AddTime:      ts,
			},
			{
				OriginalPath: "/uploads/legacy_data.txt",
				FileName:     "legacy_data.txt",
				FileType:     "txt",
				Status:       domain.StatusFailed,
				FileSize:     ptr(int64(5000)),
				AddTime:      ptr(domain.NewTimestamp(now.Add(-1000 * time.Second))),
			},
		},
	}
}

func fallbackIngest(now time.Time) ingestResponse {
	return ingestResponse{
		TaskID:  fmt.Sprintf("task_%d", now.UnixMilli()),
		Message: fallbackIngestMessage,
	}
}

func fallbackDeletion(paths []string) deletionResponse {
	return deletionResponse{
		Successful: len(paths),
		Message:    fallbackDeleteMessage,
	}
}

func fallbackTasks(now time.Time) tasksResponse {
	ts := ptr(domain.NewTimestamp(now))
	return tasksResponse{
		Tasks: []domain.TaskRecord{
			{TaskID: "t_123", TaskType: "ingestion", Status: domain.StatusCompleted, Progress: 100, FilePath: "company_handbook.pdf", StartTime: ts, Message: "Successfully indexed"},
			{TaskID: "t_124", TaskType: "ingestion", Status: domain.StatusProcessing, Progress: 45, FilePath: "project_specs.docx", StartTime: ts, Message: "Generating embeddings..."},
			{TaskID: "t_125", TaskType: "deletion", Status: domain.StatusPending, Progress: 0, FilePath: "old_doc.pdf", StartTime: ts, Message: "Waiting in queue"},
		},
	}
}

func fallbackAnswer() queryResponse {
	return queryResponse{
		Answer: "Based on the provided documents, the project specifications require a modular architecture " +
			"using React and Python. The system must support real-time updates and robust error handling " +
			"as detailed in section 4.2 of the technical requirements.",
		RetrievalTime:  0.15,
		GenerationTime: 1.2,
		TotalTime:      1.35,
		RetrievedTexts: []domain.RetrievedText{
			{
				Text:     "Section 4.2: Technical Requirements. The system shall be built using a React frontend and Python FastAPI backend.",
				Distance: 0.85,
				Source:   "project_specs.docx",
			},
			{
				Text:     "Real-time capabilities are essential for the task monitoring dashboard.",
				Distance: 0.78,
				Source:   "project_specs.docx",
			},
			{
				Text:     "Error handling must be implemented at both the service and UI layers.",
				Distance: 0.72,
				Source:   "architecture_guidelines.pdf",
			},
		},
	}
}
