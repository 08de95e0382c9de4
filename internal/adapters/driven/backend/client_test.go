package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, FallbackDelay: time.Millisecond, Now: func() time.Time { return fixedNow }})
}

func newOfflineClient(t *testing.T) *Client {
	t.Helper()
	client, _ := unreachable()
	return NewClient(Config{
		HTTPClient:    client,
		FallbackDelay: time.Millisecond,
		UploadDelay:   time.Millisecond,
		Now:           func() time.Time { return fixedNow },
	})
}

func TestClient_ListFiles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/list", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"files":[{"name":"a.pdf","path":"/uploads/a.pdf","size":3,"modified":"2024-01-01T00:00:00Z"}]}`))
	})

	res, err := c.ListFiles(context.Background())

	require.NoError(t, err)
	assert.False(t, res.Simulated)
	require.Len(t, res.Value, 1)
	assert.Equal(t, "/uploads/a.pdf", res.Value[0].Path)
}

func TestClient_ListFilesOfflineReturnsFallback(t *testing.T) {
	c := newOfflineClient(t)

	res, err := c.ListFiles(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	require.Len(t, res.Value, 3)
	assert.Equal(t, "company_handbook.pdf", res.Value[0].Name)
	assert.Equal(t, "project_specs.docx", res.Value[1].Name)
	assert.Equal(t, "notes.txt", res.Value[2].Name)
	assert.True(t, fixedNow.Add(-24*time.Hour).Equal(res.Value[1].Modified.Time))
}

func TestClient_UploadFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/files/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "content", string(data))

		_, _ = w.Write([]byte(`{"success":true,"message":"File uploaded","data":{"filename":"report.pdf"}}`))
	})

	res, err := c.UploadFile(context.Background(), "report.pdf", strings.NewReader("content"))

	require.NoError(t, err)
	assert.False(t, res.Simulated)
	assert.Equal(t, "File uploaded", res.Value.Message)
	assert.Equal(t, "report.pdf", res.Value.Data["filename"])
}

func TestClient_UploadFileRejectedIsNotSubstituted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"success":false,"message":"quota exceeded"}`))
	})

	res, err := c.UploadFile(context.Background(), "big.bin", strings.NewReader("x"))

	var se *domain.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "quota exceeded", se.Message)
	assert.Equal(t, http.StatusRequestEntityTooLarge, se.StatusCode)
	assert.False(t, res.Simulated)
	assert.Empty(t, res.Value.Message)
}

func TestClient_UploadFileOfflineSaysMock(t *testing.T) {
	c := newOfflineClient(t)

	res, err := c.UploadFile(context.Background(), "a.txt", strings.NewReader("x"))

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	assert.Contains(t, res.Value.Message, "Mock")
	assert.Equal(t, "a.txt", res.Value.Data["filename"])
}

func TestClient_DeleteFileEscapesName(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"success":true,"message":"deleted"}`))
	})

	res, err := c.DeleteFile(context.Background(), "report final.pdf")

	require.NoError(t, err)
	assert.Equal(t, "/files/report%20final.pdf", gotPath)
	assert.Equal(t, "deleted", res.Value.Message)
}

func TestClient_DeleteFileEscapesReservedCharacters(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	_, err := c.DeleteFile(context.Background(), "a/b?c#d.txt")

	require.NoError(t, err)
	assert.Equal(t, "/files/a%2Fb%3Fc%23d.txt", gotPath)
}

func TestClient_DeleteFileServerFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.DeleteFile(context.Background(), "gone.txt")

	var se *domain.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Delete failed: Not Found", se.Message)
}

func TestClient_DeleteFileOffline(t *testing.T) {
	res, err := newOfflineClient(t).DeleteFile(context.Background(), "x.txt")

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	assert.Equal(t, "Deleted (Mock)", res.Value.Message)
}

func TestClient_ListDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"documents":[
			{"original_path":"/uploads/a.pdf","file_name":"a.pdf","file_type":"pdf","status":"completed","chunks_count":7,"file_size":10,"add_time":"2024-01-01T00:00:00"}
		]}`))
	})

	res, err := c.ListDocuments(context.Background())

	require.NoError(t, err)
	require.Len(t, res.Value, 1)
	doc := res.Value[0]
	assert.Equal(t, domain.StatusCompleted, doc.Status)
	assert.Equal(t, 7, doc.ChunksCount)
	require.NotNil(t, doc.FileSize)
	assert.Equal(t, int64(10), *doc.FileSize)
	require.NotNil(t, doc.AddTime)
	assert.Equal(t, 2024, doc.AddTime.Year())
}

func TestClient_ListDocumentsOffline(t *testing.T) {
	res, err := newOfflineClient(t).ListDocuments(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	require.Len(t, res.Value, 3)
	assert.Equal(t, domain.StatusCompleted, res.Value[0].Status)
	assert.Equal(t, 145, res.Value[0].ChunksCount)
	assert.Equal(t, domain.StatusProcessing, res.Value[1].Status)
	assert.Equal(t, domain.StatusFailed, res.Value[2].Status)
}

func TestClient_AddDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string][]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"/uploads/a.pdf", "/uploads/b.pdf"}, body["file_paths"])
		_, _ = w.Write([]byte(`{"success":true,"task_id":"task_9","message":"queued"}`))
	})

	res, err := c.AddDocuments(context.Background(), []string{"/uploads/a.pdf", "/uploads/b.pdf"})

	require.NoError(t, err)
	assert.Equal(t, "task_9", res.Value.TaskID)
	assert.Equal(t, "queued", res.Value.Message)
}

func TestClient_AddDocumentsOffline(t *testing.T) {
	res, err := newOfflineClient(t).AddDocuments(context.Background(), []string{"a"})

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	assert.Equal(t, "task_1717243200000", res.Value.TaskID)
	assert.Contains(t, res.Value.Message, "Mock")
}

func TestClient_DeleteDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/delete", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"successful_deletions":1,"failed_deletions":1}`))
	})

	res, err := c.DeleteDocuments(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Value.Successful)
	assert.Equal(t, 1, res.Value.Failed)
}

func TestClient_DeleteDocumentsOffline(t *testing.T) {
	res, err := newOfflineClient(t).DeleteDocuments(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	assert.Equal(t, 3, res.Value.Successful)
	assert.Equal(t, 0, res.Value.Failed)
}

func TestClient_ListTasks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/recent", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"tasks":[{"task_id":"t1","task_type":"ingestion","status":"processing","progress":30}]}`))
	})

	res, err := c.ListTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, res.Value, 1)
	assert.Equal(t, "t1", res.Value[0].TaskID)
	assert.Equal(t, 30, res.Value[0].Progress)
}

func TestClient_ListTasksOffline(t *testing.T) {
	res, err := newOfflineClient(t).ListTasks(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	require.Len(t, res.Value, 3)
	assert.Equal(t, "t_123", res.Value[0].TaskID)
	assert.Equal(t, domain.StatusPending, res.Value[2].Status)
}

func TestClient_QueryDefaultsLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Question string `json:"question"`
			Limit    int    `json:"limit"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what is it?", body.Question)
		assert.Equal(t, 3, body.Limit)
		_, _ = w.Write([]byte(`{"success":true,"answer":"it is","retrieval_time":0.1,"generation_time":0.2,"total_time":0.3,
			"retrieved_texts":[{"text":"t","distance":0.9,"source":"s.pdf"}]}`))
	})

	res, err := c.Query(context.Background(), "what is it?", 0)

	require.NoError(t, err)
	assert.Equal(t, "it is", res.Value.Text)
	assert.InDelta(t, 0.3, res.Value.Metrics.TotalTime, 1e-9)
	require.Len(t, res.Value.RetrievedTexts, 1)
	assert.Equal(t, "s.pdf", res.Value.RetrievedTexts[0].Source)
}

func TestClient_QueryOffline(t *testing.T) {
	res, err := newOfflineClient(t).Query(context.Background(), "anything", 3)

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	assert.NotEmpty(t, res.Value.Text)
	assert.InDelta(t, 0.15, res.Value.Metrics.RetrievalTime, 1e-9)
	assert.InDelta(t, 1.2, res.Value.Metrics.GenerationTime, 1e-9)
	assert.InDelta(t, 1.35, res.Value.Metrics.TotalTime, 1e-9)
	assert.Len(t, res.Value.RetrievedTexts, 3)
}

func TestClient_QueryOfflineHonoursLimit(t *testing.T) {
	res, err := newOfflineClient(t).Query(context.Background(), "anything", 1)

	require.NoError(t, err)
	assert.Len(t, res.Value.RetrievedTexts, 1)
}

func TestClient_QueryFailureNotSubstituted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"index not ready"}`))
	})

	_, err := c.Query(context.Background(), "q", 3)

	assert.True(t, domain.IsServerFailure(err))
	assert.Equal(t, "index not ready", domain.ServerMessage(err))
}

func TestClient_Health(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	res, err := c.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Value.Status)

	offline, err := newOfflineClient(t).Health(context.Background())
	require.NoError(t, err)
	assert.True(t, offline.Simulated)
	assert.Equal(t, "healthy", offline.Value.Status)
}

func TestConfigFromSettings(t *testing.T) {
	s := domain.DefaultAppSettings().Backend
	s.FallbackEnabled = false

	cfg := ConfigFromSettings(s)

	assert.True(t, cfg.DisableFallback)
	assert.Equal(t, s.BaseURL, cfg.BaseURL)
	assert.Equal(t, domain.DefaultUploadDelay, cfg.UploadDelay)
}
