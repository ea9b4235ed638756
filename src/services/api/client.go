// Package api wraps the four backend endpoints (plus reindex) in a resty
// client. Each method issues exactly one request: no retries, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"kaas/src/config"
	"kaas/src/logging"
	"kaas/src/models"
)

// DefaultResultLimit is the number of chunks requested per query when the
// caller does not ask for a specific amount.
const DefaultResultLimit = 7

// Version is reported in the User-Agent header.
var Version = "dev"

// File is an in-memory file selected for upload.
type File struct {
	Name    string
	Content []byte
}

// Client talks to the document-QA backend.
type Client struct {
	client *resty.Client
	logger *slog.Logger
}

// New creates a client for cfg.BaseURL. A zero cfg.Timeout leaves requests
// unbounded; callers cancel through the context instead.
func New(cfg config.APIConfig, logger *slog.Logger) *Client {
	logger = logging.Component(logger, "api")

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "kaas-client/"+Version).
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("request completed",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
			"request_id", resp.Request.Header.Get("X-Request-ID"),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		logger.Warn("request failed",
			"method", req.Method,
			"url", req.URL,
			"request_id", req.Header.Get("X-Request-ID"),
			"error", err,
		)
	})

	return &Client{client: client, logger: logger}
}

// Upload sends file as multipart form data under the field "file".
func (c *Client) Upload(ctx context.Context, file *File) (*models.UploadResult, error) {
	if file == nil || file.Name == "" {
		return nil, &models.ValidationError{Message: "Please select a file first."}
	}

	contentType := mimetype.Detect(file.Content).String()

	var result models.UploadResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetMultipartField("file", file.Name, contentType, bytes.NewReader(file.Content)).
		SetResult(&result).
		ForceContentType("application/json").
		Post("/upload")
	if err := check("upload", resp, err); err != nil {
		return nil, err
	}

	c.logger.Info("document uploaded", "filename", result.Filename, "upload_id", result.UploadID)
	return &result, nil
}

// Query asks a question, optionally scoped to one filename. A nil filename
// searches all documents and is sent as JSON null.
func (c *Client) Query(ctx context.Context, question string, filename *string, k int) (*models.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &models.ValidationError{Message: "Question cannot be empty."}
	}
	if k <= 0 {
		k = DefaultResultLimit
	}

	var result models.QueryResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(models.QueryRequest{Question: question, Filename: filename, K: k}).
		SetResult(&result).
		ForceContentType("application/json").
		Post("/query")
	if err := check("query", resp, err); err != nil {
		return nil, err
	}

	if result.Sources == nil {
		result.Sources = []models.Source{}
	}
	return &result, nil
}

// ListDocuments returns the backend's documents in the order it sent them.
func (c *Client) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&docs).
		ForceContentType("application/json").
		Get("/documents")
	if err := check("list documents", resp, err); err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

// ResetAll wipes every document on the backend. It is irreversible; callers
// must obtain explicit confirmation first.
func (c *Client) ResetAll(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Post("/reset")
	if err := check("reset", resp, err); err != nil {
		return err
	}
	c.logger.Warn("all backend data reset")
	return nil
}

// Reindex asks the backend to rebuild the vectors of one upload.
func (c *Client) Reindex(ctx context.Context, uploadID string) error {
	if strings.TrimSpace(uploadID) == "" {
		return &models.ValidationError{Message: "Upload ID is required."}
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("upload_id", uploadID).
		Post("/reindex/{upload_id}")
	return check("reindex", resp, err)
}

// check classifies the outcome of a request into nil, a TransportError or an
// APIError carrying the backend's detail message.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		if resp != nil && resp.RawResponse != nil && resp.IsSuccess() {
			return &models.TransportError{Op: op, Err: fmt.Errorf("invalid response body: %w", err)}
		}
		return &models.TransportError{Op: op, Err: err}
	}
	if !resp.IsSuccess() {
		return &models.APIError{Op: op, Status: resp.StatusCode(), Detail: detail(resp.Body())}
	}
	return nil
}

// detail extracts {"detail": "..."} from an error body. Structured details,
// such as validation error lists, are not shown verbatim.
func detail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(payload.Detail, &msg); err != nil {
		return ""
	}
	return strings.TrimSpace(msg)
}
