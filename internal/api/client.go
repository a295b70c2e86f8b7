// Package api talks to the college management REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

const maxErrorBody = 64 << 10

// Client is a thin JSON-over-HTTP transport. It never stores credentials;
// each Request carries the token it should send.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a client rooted at baseURL (for example http://localhost:8080/api)
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// WithHTTPClient swaps the underlying http.Client (tests use the httptest client)
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// FilePart is one file field of a multipart body
type FilePart struct {
	Field    string
	FileName string
	Content  []byte
}

// Request describes one API call
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil and Form is nil
	Body interface{}
	// Form and Files switch the body to multipart/form-data
	Form  map[string]string
	Files []FilePart
	// Token is sent as a bearer credential when non-empty
	Token string
}

// Do performs the request and decodes a 2xx JSON body into out (which may be nil)
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("Request failed without response")
		return apperrors.NewCustomError(apperrors.ErrNetworkFailure, err.Error())
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(req, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperrors.NewCustomError(apperrors.ErrNetworkFailure, fmt.Sprintf("read response: %v", err))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error().Err(err).Str("path", req.Path).Int("bytes", len(body)).Msg("Malformed response payload")
		return apperrors.NewCustomError(apperrors.ErrServerFailure, "malformed response payload").
			WithStatus(resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil || len(req.Files) > 0:
		buf, ct, err := encodeMultipart(req.Form, req.Files)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	return httpReq, nil
}

func encodeMultipart(fields map[string]string, files []FilePart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.FileName, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write form file %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// statusError maps a non-2xx response onto the error taxonomy
func (c *Client) statusError(req Request, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message, code := parseErrorBody(raw)

	var kind error
	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		kind = apperrors.ErrBadRequest
	case resp.StatusCode == http.StatusUnauthorized:
		kind = apperrors.ErrAuthenticationFailed
	case resp.StatusCode == http.StatusForbidden:
		kind = apperrors.ErrAuthorizationFailed
	case resp.StatusCode == http.StatusNotFound:
		kind = apperrors.ErrResourceNotFound
	case resp.StatusCode == http.StatusConflict:
		kind = apperrors.ErrConflict
	default:
		kind = apperrors.ErrServerFailure
	}

	if errors.Is(kind, apperrors.ErrServerFailure) {
		c.logger.Error().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Str("body", truncate(string(raw), 512)).
			Msg("Server failure")
	}

	return apperrors.NewCustomError(kind, message).WithStatus(resp.StatusCode).WithCode(code)
}

// parseErrorBody understands {"message": ...}, {"error": {"message": ...}} and plain text
func parseErrorBody(raw []byte) (message, code string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", ""
	}
	if trimmed[0] == '{' {
		var body struct {
			Message string          `json:"message"`
			Code    dto.ErrorCode   `json:"code"`
			Error   json.RawMessage `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return "", ""
		}
		if body.Message != "" {
			return body.Message, string(body.Code)
		}
		var nested struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if len(body.Error) > 0 && json.Unmarshal(body.Error, &nested) == nil {
			return nested.Message, nested.Code
		}
		return "", ""
	}
	return truncate(string(trimmed), 256), ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
