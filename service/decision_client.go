package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"go.uber.org/zap"

	"sentinel-portal/models"
)

// DecisionClient sends a statement to the decision service
type DecisionClient interface {
	Analyze(ctx context.Context, filename string, statement io.Reader) (*models.DecisionResponse, error)
}

// UpstreamError is a non-2xx answer from the decision service
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "Backend error"
}

const defaultUpstreamTimeout = 120 * time.Second

// HTTPDecisionClient posts statements as multipart uploads
type HTTPDecisionClient struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// HTTPDecisionClientOption is a functional option for HTTPDecisionClient
type HTTPDecisionClientOption func(*HTTPDecisionClient)

// DecisionWithHTTPClient sets the underlying HTTP client
func DecisionWithHTTPClient(c *http.Client) HTTPDecisionClientOption {
	return func(d *HTTPDecisionClient) {
		d.httpClient = c
	}
}

// DecisionWithTimeout bounds a single call
func DecisionWithTimeout(t time.Duration) HTTPDecisionClientOption {
	return func(d *HTTPDecisionClient) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// DecisionWithLogger sets the logger
func DecisionWithLogger(l *zap.Logger) HTTPDecisionClientOption {
	return func(d *HTTPDecisionClient) {
		d.logger = l
	}
}

// NewHTTPDecisionClient creates a client for the decision service at url
func NewHTTPDecisionClient(url string, opts ...HTTPDecisionClientOption) *HTTPDecisionClient {
	d := &HTTPDecisionClient{
		url:        url,
		httpClient: http.DefaultClient,
		timeout:    defaultUpstreamTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Analyze uploads the statement once. There is no retry: a failed call
// surfaces to the caller, who may submit again.
func (d *HTTPDecisionClient) Analyze(ctx context.Context, filename string, statement io.Reader) (*models.DecisionResponse, error) {
	body, contentType, err := multipartStatement(filename, statement)
	if err != nil {
		return nil, err
	}

	t := timeout.New[*models.DecisionResponse](timeout.Config{
		DefaultTimeout: d.timeout,
	})
	return t.Execute(ctx, d.timeout, func(ctx context.Context) (*models.DecisionResponse, error) {
		return d.post(ctx, body, contentType)
	})
}

func (d *HTTPDecisionClient) post(ctx context.Context, body []byte, contentType string) (*models.DecisionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	d.logger.Debug("decision service responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int("bytes", len(respBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Detail any `json:"detail"`
		}
		upstreamErr := &UpstreamError{StatusCode: resp.StatusCode}
		if json.Unmarshal(respBody, &payload) == nil {
			if detail, ok := payload.Detail.(string); ok {
				upstreamErr.Detail = detail
			}
		}
		return nil, upstreamErr
	}

	var decision models.DecisionResponse
	if err := json.Unmarshal(respBody, &decision); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &decision, nil
}

// multipartStatement encodes the statement as the "file" form field
func multipartStatement(filename string, statement io.Reader) ([]byte, string, error) {
	if statement == nil {
		return nil, "", errors.New("statement is required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", "application/pdf")

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, statement); err != nil {
		return nil, "", fmt.Errorf("failed to encode statement: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
