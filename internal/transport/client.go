// Package transport performs HTTP round-trips against the portal backend.
// It owns bearer-token attachment, uniform error mapping and content-type
// sniffing; everything above it works with decoded payloads only.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/pkg/config"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

const headerRequestID = "X-Request-ID"

// TokenSource supplies the current bearer token, empty when signed out.
type TokenSource interface {
	Token() string
}

// Client is the single transport primitive for the portal backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	metrics *Metrics
}

// New constructs a Client. A nil logger falls back to a no-op one.
func New(cfg config.ClientConfig, tokens TokenSource, logger *zap.Logger, metrics *Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

// Get issues a GET request and returns the JSON payload.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	data, respType, err := c.do(ctx, method, path, query, reader, contentType)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	if isJSONContentType(respType) {
		return json.RawMessage(data), nil
	}
	// Non-JSON success bodies (plain-text acknowledgements) are passed
	// through as a JSON string so callers keep a single payload type.
	encoded, err := json.Marshal(string(data))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParse.Code, appErrors.ErrParse.Status, "encode text payload")
	}
	return json.RawMessage(encoded), nil
}

// Upload sends one file as multipart/form-data together with extra fields.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, extra map[string]string) (json.RawMessage, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build multipart body")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "copy multipart file")
	}
	for key, value := range extra {
		if err := writer.WriteField(key, value); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write multipart field")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "close multipart body")
	}

	data, respType, err := c.do(ctx, http.MethodPost, path, nil, buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || !isJSONContentType(respType) {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// BlobKind classifies a downloaded body.
type BlobKind int

const (
	BlobJSON BlobKind = iota
	BlobSpreadsheet
	BlobBinary
	BlobText
)

// Blob is a downloaded binary or textual payload.
type Blob struct {
	Kind        BlobKind
	ContentType string
	Filename    string
	Data        []byte
}

// JSON re-parses the blob body as JSON when possible. Text blobs get a
// best-effort re-parse because some endpoints mislabel JSON as text/plain.
func (b *Blob) JSON() (json.RawMessage, bool) {
	if b.Kind != BlobJSON && b.Kind != BlobText {
		return nil, false
	}
	if !json.Valid(b.Data) {
		return nil, false
	}
	return json.RawMessage(b.Data), true
}

// Download fetches a binary endpoint, classifying the body by Content-Type.
func (c *Client) Download(ctx context.Context, path string, query url.Values) (*Blob, error) {
	target, err := c.resolve(path, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	c.decorate(req, "")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveFailure(http.MethodGet, path)
		return nil, appErrors.Wrap(err, appErrors.ErrRequestFailed.Code, 0, "download "+path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.observe(http.MethodGet, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRequestFailed.Code, resp.StatusCode, "read download body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, data, resp.Header.Get("Content-Type"))
	}

	contentType := resp.Header.Get("Content-Type")
	blob := &Blob{
		Kind:        sniffKind(contentType),
		ContentType: contentType,
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		Data:        data,
	}
	return blob, nil
}

// do performs one request and returns the raw body plus its content type.
// Non-2xx responses are mapped to a transport error carrying the server
// message when one can be extracted.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, string, error) {
	target, err := c.resolve(path, query)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	c.decorate(req, contentType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveFailure(method, path)
		c.logger.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrRequestFailed.Code, 0, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	c.observe(method, path, resp.StatusCode, duration)
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration))

	if resp.StatusCode == http.StatusNoContent {
		return nil, "", nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrRequestFailed.Code, resp.StatusCode, "read response body")
	}

	respType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", errorFromResponse(resp.StatusCode, data, respType)
	}
	return data, respType, nil
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	if _, err := url.Parse(target); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "resolve url")
	}
	return target, nil
}

func (c *Client) decorate(req *http.Request, contentType string) {
	req.Header.Set(headerRequestID, uuid.NewString())
	req.Header.Set("Accept", "application/json, */*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func (c *Client) observe(method, path string, status int, duration time.Duration) {
	c.metrics.ObserveRequest(method, path, status, duration)
}

// errorFromResponse extracts the server-supplied message out of an error
// body. JSON bodies are checked for the conventional message fields; plain
// text is used verbatim; anything else falls back to "HTTP <status>".
func errorFromResponse(status int, body []byte, contentType string) *appErrors.Error {
	message := ""
	if isJSONContentType(contentType) || json.Valid(body) {
		message = serverMessage(body)
	}
	if message == "" && !isJSONContentType(contentType) {
		message = strings.TrimSpace(string(body))
	}
	return appErrors.Request(status, message)
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Error) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload.Error, &text); err == nil {
		return text
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func sniffKind(contentType string) BlobKind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return BlobBinary
	}
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return BlobJSON
	case strings.Contains(mediaType, "spreadsheet") || mediaType == "application/vnd.ms-excel":
		return BlobSpreadsheet
	case strings.HasPrefix(mediaType, "text/"):
		return BlobText
	default:
		return BlobBinary
	}
}

// dispositionFilename extracts the bare filename from a Content-Disposition
// header. The value is server-controlled, so any path component is dropped.
func dispositionFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
