package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/logger"
)

// maxErrorBody bounds how much of an error response is read for a message.
const maxErrorBody = 64 << 10

// Request fully describes one backend call.
type Request struct {
	// Method is the HTTP method.
	Method string

	// Path is appended to the base URL. It must already be escaped.
	Path string

	// Header holds extra request headers.
	Header http.Header

	// Body is the request body, if any.
	Body []byte

	// FallbackDelay overrides the executor's delay when positive.
	FallbackDelay time.Duration

	// FailurePrefix is prepended to the status text when a failed
	// response carries no message, e.g. "Upload failed".
	FailurePrefix string
}

func (r Request) op() string {
	return r.Method + " " + r.Path
}

// Executor issues backend requests and resolves them to a Result.
// It holds no mutable state after construction.
type Executor struct {
	client          *http.Client
	baseURL         string
	fallbackEnabled bool
	fallbackDelay   time.Duration
}

// NewExecutor creates an executor from cfg.
func NewExecutor(cfg Config) *Executor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = domain.DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Executor{
		client:          client,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		fallbackEnabled: !cfg.DisableFallback,
		fallbackDelay:   cfg.FallbackDelay,
	}
}

// BaseURL returns the backend root.
func (e *Executor) BaseURL() string {
	return e.baseURL
}

// FallbackEnabled reports whether transport failures are substituted.
func (e *Executor) FallbackEnabled() bool {
	return e.fallbackEnabled
}

// envelope holds the fields every backend response may carry.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
}

// Execute issues req once and decodes a 2xx body into T.
//
// On a transport failure with fallback enabled it waits the fallback delay
// and returns fallback marked Simulated; if ctx ends during the wait, or
// fallback is disabled, it returns *domain.TransportError. A non-2xx
// response, a body with "success": false, or an undecodable 2xx body
// returns *domain.ServerError.
func Execute[T any](ctx context.Context, e *Executor, req Request, fallback T) (domain.Result[T], error) {
	var zero domain.Result[T]

	body, status, err := e.do(ctx, req)
	if err != nil {
		terr := &domain.TransportError{Op: req.op(), Cause: err}
		if !e.fallbackEnabled || ctx.Err() != nil {
			logger.Warn("backend: %v", terr)
			return zero, terr
		}
		delay := e.fallbackDelay
		if req.FallbackDelay > 0 {
			delay = req.FallbackDelay
		}
		logger.Warn("backend: %s unreachable, using fallback data after %s: %v", req.op(), delay, err)
		if err := wait(ctx, delay); err != nil {
			return zero, &domain.TransportError{Op: req.op(), Cause: err}
		}
		return domain.Simulated(fallback), nil
	}

	if status < 200 || status > 299 {
		serr := &domain.ServerError{StatusCode: status, Message: failureMessage(body, status, req.FailurePrefix)}
		logger.Debug("backend: %s rejected: %v", req.op(), serr)
		return zero, serr
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, malformed(req, err)
	}
	if env.Success != nil && !*env.Success {
		msg := envelopeMessage(env)
		if msg == "" {
			msg = "request failed"
			if req.FailurePrefix != "" {
				msg = req.FailurePrefix
			}
		}
		logger.Debug("backend: %s reported failure: %s", req.op(), msg)
		return zero, &domain.ServerError{Message: msg}
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return zero, malformed(req, err)
	}

	logger.Debug("backend: %s -> %d", req.op(), status)
	return domain.Live(value), nil
}

// do performs the HTTP round trip. A returned error is a transport failure.
func (e *Executor) do(ctx context.Context, req Request) ([]byte, int, error) {
	var reader io.Reader
	if req.Body != nil {
		reader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, e.baseURL+req.Path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")

	logger.Debug("backend: %s %s", req.Method, httpReq.URL.String())

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var body []byte
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		body, err = io.ReadAll(resp.Body)
	} else {
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func malformed(req Request, err error) error {
	logger.Debug("backend: %s returned malformed body: %v", req.op(), err)
	return &domain.ServerError{Message: fmt.Sprintf("malformed response from %s: %v", req.op(), err)}
}

// failureMessage extracts the backend's explanation from an error body,
// falling back to the HTTP status text.
func failureMessage(body []byte, status int, prefix string) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if msg := envelopeMessage(env); msg != "" {
			return msg
		}
	}

	text := http.StatusText(status)
	if text == "" {
		text = fmt.Sprintf("HTTP %d", status)
	}
	if prefix != "" {
		return prefix + ": " + text
	}
	return text
}

// envelopeMessage returns message, detail or error, in that order.
// detail may be a string or a list of {"msg": ...} objects.
func envelopeMessage(env envelope) string {
	if env.Message != "" {
		return env.Message
	}
	if len(env.Detail) > 0 {
		var s string
		if err := json.Unmarshal(env.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(env.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return env.Error
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
