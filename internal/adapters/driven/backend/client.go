package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Client is the backend facade: one method per backend capability, each
// with its own fallback payload.
type Client struct {
	exec        *Executor
	uploadDelay time.Duration
	now         func() time.Time
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		exec:        NewExecutor(cfg),
		uploadDelay: cfg.UploadDelay,
		now:         now,
	}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.exec.BaseURL()
}

// FallbackEnabled reports whether fallback data stands in for an
// unreachable backend.
func (c *Client) FallbackEnabled() bool {
	return c.exec.FallbackEnabled()
}

// Wire formats.

type healthResponse struct {
	Status string `json:"status"`
}

type filesResponse struct {
	Files []domain.FileRecord `json:"files"`
}

type ackResponse struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type pathsRequest struct {
	FilePaths []string `json:"file_paths"`
}

type documentsResponse struct {
	Documents []domain.DocumentRecord `json:"documents"`
}

type ingestResponse struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

type deletionResponse struct {
	Successful int    `json:"successful_deletions"`
	Failed     int    `json:"failed_deletions"`
	Message    string `json:"message"`
}

type tasksResponse struct {
	Tasks []domain.TaskRecord `json:"tasks"`
}

type queryRequest struct {
	Question string `json:"question"`
	Limit    int    `json:"limit"`
}

type queryResponse struct {
	Answer         string                 `json:"answer"`
	RetrievalTime  float64                `json:"retrieval_time"`
	GenerationTime float64                `json:"generation_time"`
	TotalTime      float64                `json:"total_time"`
	RetrievedTexts []domain.RetrievedText `json:"retrieved_texts"`
}

// mapResult converts a resolved wire payload, keeping the Simulated flag.
func mapResult[W, T any](res domain.Result[W], err error, fn func(W) T) (domain.Result[T], error) {
	if err != nil {
		return domain.Result[T]{}, err
	}
	return domain.Result[T]{Value: fn(res.Value), Simulated: res.Simulated}, nil
}

func jsonRequest(method, path string, payload any) (Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("marshal request: %w", err)
	}
	return Request{
		Method: method,
		Path:   path,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	}, nil
}

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) (domain.Result[domain.Health], error) {
	res, err := Execute(ctx, c.exec, Request{Method: http.MethodGet, Path: "/health"}, fallbackHealth())
	return mapResult(res, err, func(w healthResponse) domain.Health {
		return domain.Health{Status: w.Status}
	})
}

// ListFiles returns the files in the upload area.
func (c *Client) ListFiles(ctx context.Context) (domain.Result[[]domain.FileRecord], error) {
	res, err := Execute(ctx, c.exec, Request{Method: http.MethodGet, Path: "/files/list"}, fallbackFiles(c.now()))
	return mapResult(res, err, func(w filesResponse) []domain.FileRecord {
		return w.Files
	})
}

// UploadFile uploads content as multipart form field "file".
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader) (domain.Result[domain.Ack], error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return domain.Result[domain.Ack]{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return domain.Result[domain.Ack]{}, fmt.Errorf("read upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.Result[domain.Ack]{}, fmt.Errorf("close multipart body: %w", err)
	}

	req := Request{
		Method:        http.MethodPost,
		Path:          "/files/upload",
		Header:        http.Header{"Content-Type": []string{mw.FormDataContentType()}},
		Body:          buf.Bytes(),
		FallbackDelay: c.uploadDelay,
		FailurePrefix: "Upload failed",
	}
	res, err := Execute(ctx, c.exec, req, fallbackUpload(name))
	return mapResult(res, err, toAck)
}

// DeleteFile removes an uploaded file by name.
func (c *Client) DeleteFile(ctx context.Context, name string) (domain.Result[domain.Ack], error) {
	req := Request{
		Method:        http.MethodDelete,
		Path:          "/files/" + url.PathEscape(name),
		FailurePrefix: "Delete failed",
	}
	res, err := Execute(ctx, c.exec, req, fallbackDelete())
	return mapResult(res, err, toAck)
}

// ListDocuments returns the knowledge base documents.
func (c *Client) ListDocuments(ctx context.Context) (domain.Result[[]domain.DocumentRecord], error) {
	res, err := Execute(ctx, c.exec, Request{Method: http.MethodGet, Path: "/documents"}, fallbackDocuments(c.now()))
	return mapResult(res, err, func(w documentsResponse) []domain.DocumentRecord {
		return w.Documents
	})
}

// AddDocuments queues uploaded files for ingestion.
func (c *Client) AddDocuments(ctx context.Context, paths []string) (domain.Result[domain.IngestAck], error) {
	req, err := jsonRequest(http.MethodPost, "/documents/add", pathsRequest{FilePaths: nonNil(paths)})
	if err != nil {
		return domain.Result[domain.IngestAck]{}, err
	}
	req.FailurePrefix = "Add documents failed"
	res, err := Execute(ctx, c.exec, req, fallbackIngest(c.now()))
	return mapResult(res, err, func(w ingestResponse) domain.IngestAck {
		return domain.IngestAck{TaskID: w.TaskID, Message: w.Message}
	})
}

// DeleteDocuments removes documents from the knowledge base.
func (c *Client) DeleteDocuments(ctx context.Context, paths []string) (domain.Result[domain.DeletionReport], error) {
	req, err := jsonRequest(http.MethodPost, "/documents/delete", pathsRequest{FilePaths: nonNil(paths)})
	if err != nil {
		return domain.Result[domain.DeletionReport]{}, err
	}
	req.FailurePrefix = "Delete KB failed"
	res, err := Execute(ctx, c.exec, req, fallbackDeletion(paths))
	return mapResult(res, err, func(w deletionResponse) domain.DeletionReport {
		return domain.DeletionReport{Successful: w.Successful, Failed: w.Failed, Message: w.Message}
	})
}

// ListTasks returns recent background tasks.
func (c *Client) ListTasks(ctx context.Context) (domain.Result[[]domain.TaskRecord], error) {
	res, err := Execute(ctx, c.exec, Request{Method: http.MethodGet, Path: "/tasks/recent"}, fallbackTasks(c.now()))
	return mapResult(res, err, func(w tasksResponse) []domain.TaskRecord {
		return w.Tasks
	})
}

// Query asks a question of the knowledge base.
func (c *Client) Query(ctx context.Context, question string, limit int) (domain.Result[domain.Answer], error) {
	if limit <= 0 {
		limit = domain.DefaultQueryLimit
	}
	req, err := jsonRequest(http.MethodPost, "/query", queryRequest{Question: question, Limit: limit})
	if err != nil {
		return domain.Result[domain.Answer]{}, err
	}
	req.FailurePrefix = "Query failed"

	fallback := fallbackAnswer()
	if len(fallback.RetrievedTexts) > limit {
		fallback.RetrievedTexts = fallback.RetrievedTexts[:limit]
	}

	res, err := Execute(ctx, c.exec, req, fallback)
	return mapResult(res, err, func(w queryResponse) domain.Answer {
		return domain.Answer{
			Text: w.Answer,
			Metrics: domain.QueryMetrics{
				RetrievalTime:  w.RetrievalTime,
				GenerationTime: w.GenerationTime,
				TotalTime:      w.TotalTime,
			},
			RetrievedTexts: w.RetrievedTexts,
		}
	})
}

func toAck(w ackResponse) domain.Ack {
	return domain.Ack{Message: w.Message, Data: w.Data}
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}
