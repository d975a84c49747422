package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/model"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
	ContentTypeJSON     = "application/json"
	bearerPrefix        = "Bearer "
)

type ctxKey int

const (
	accessTokenKey ctxKey = iota
	requestIDKey
)

// WithAccessToken makes every upstream call made with ctx carry the token.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

// WithRequestID propagates the portal request id to the backend.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHttpClient(baseURL string, timeout time.Duration) *HttpClient {
	return &HttpClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Request describes one upstream call. Body is JSON encoded unless RawBody
// is set, in which case ContentType must describe it.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        any
	RawBody     io.Reader
	ContentType string
	Headers     map[string]string
	Cookies     []*http.Cookie
}

func (c *HttpClient) GET(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *HttpClient) POST(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *HttpClient) PUT(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

func (c *HttpClient) PATCH(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (c *HttpClient) DELETE(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

func (c *HttpClient) Do(ctx context.Context, r Request) (*Response, error) {
	var reqBody io.Reader
	contentType := r.ContentType

	switch {
	case r.RawBody != nil:
		reqBody = r.RawBody
	case r.Body != nil:
		jsonData, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
		contentType = ContentTypeJSON
	}

	target := c.BaseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", ContentTypeJSON)
	if contentType != "" {
		req.Header.Set(HeaderContentType, contentType)
	}
	if token := AccessToken(ctx); token != "" {
		req.Header.Set(HeaderAuthorization, bearerPrefix+token)
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}
	for _, cookie := range r.Cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}, nil
}

// Status accepts both numeric and string status fields.
type Status string

func (s *Status) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Status(str)
		return nil
	}
	*s = Status(string(b))
	return nil
}

// Envelope is the backend's response wrapper.
type Envelope[T any] struct {
	Status     Status            `json:"status"`
	Message    string            `json:"message"`
	Data       T                 `json:"data"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

// Decode turns a response into its envelope. Non-2xx answers become
// upstream AppErrors carrying the backend's message.
func Decode[T any](resp *Response, err error) (*Envelope[T], error) {
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apperrors.Upstream(resp.StatusCode, GetErrorMessage(resp))
	}

	var env Envelope[T]
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return &env, nil
	}
	if err := resp.DecodeJSON(&env); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUpstream, "invalid response from booking backend", http.StatusBadGateway)
	}
	return &env, nil
}

func GetErrorMessage(resp *Response) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		return ""
	}

	if errResp.Message != "" {
		return errResp.Message
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	return errResp.Code
}
