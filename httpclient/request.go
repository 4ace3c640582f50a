package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one outbound call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   url.Values

	body    []byte
	bodyErr error
}

func NewRequest(method, urlStr string) *Request {
	return &Request{
		Method:  method,
		URL:     urlStr,
		Headers: make(map[string]string),
		Query:   make(url.Values),
	}
}

func NewGetRequest(urlStr string) *Request {
	return NewRequest(http.MethodGet, urlStr)
}

func NewPostRequest(urlStr string) *Request {
	return NewRequest(http.MethodPost, urlStr)
}

func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) WithQuery(key, value string) *Request {
	r.Query.Set(key, value)
	return r
}

// WithJSON encodes data as the body. An encoding error surfaces from Client.Do.
func (r *Request) WithJSON(data any) *Request {
	if data == nil {
		return r
	}
	b, err := json.Marshal(data)
	if err != nil {
		r.bodyErr = err
		return r
	}
	r.body = b
	r.Headers["Content-Type"] = "application/json"
	return r
}

func (r *Request) buildHTTPRequest(ctx context.Context, baseURL string, queries url.Values) (*http.Request, error) {
	if r.bodyErr != nil {
		return nil, fmt.Errorf("encode request body: %w", r.bodyErr)
	}

	fullURL := r.URL
	if baseURL != "" && !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		fullURL = strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(fullURL, "/")
	}

	query := make(url.Values)
	for k, vs := range queries {
		query[k] = append([]string(nil), vs...)
	}
	for k, vs := range r.Query {
		query[k] = append([]string(nil), vs...)
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + query.Encode()
	}

	var body io.Reader
	if len(r.body) > 0 {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, fullURL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}
