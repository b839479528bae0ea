package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/storekit/errors"
)

// Request describes an outbound fetch. Two requests with the same method,
// URL, query, headers and body address the same cache entry.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string `json:"method,omitempty" validate:"omitempty,httpmethod"`
	// URL is appended to the client's BaseURL unless it is absolute.
	URL string `json:"url" validate:"required"`
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string `json:"headers,omitempty"`
	// Query are URL query parameters.
	Query map[string]string `json:"query,omitempty"`
	// Body is the request body. Accepts io.Reader, []byte, string, or any
	// value that will be JSON-encoded.
	Body any `json:"body,omitempty"`
}

// MethodOrDefault returns the request method, defaulting to GET.
func (r Request) MethodOrDefault() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

// build turns r into an *http.Request for target. Request headers win over
// defaults.
func (r Request) build(ctx context.Context, target string, defaults map[string]string) (*http.Request, error) {
	body, contentType, err := r.encodeBody()
	if err != nil {
		return nil, errors.InvalidInput("body", fmt.Sprintf("encode body: %v", err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.MethodOrDefault(), target, body)
	if err != nil {
		return nil, errors.InvalidInput("url", fmt.Sprintf("create request: %v", err))
	}

	if len(r.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range r.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	for _, headers := range []map[string]string{defaults, r.Headers} {
		for k, v := range headers {
			httpReq.Header.Set(k, v)
		}
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	stamp(httpReq.Header)
	return httpReq, nil
}

// encodeBody sends readers and bytes as is, strings as text/plain and
// anything else as JSON.
func (r Request) encodeBody() (io.Reader, string, error) {
	switch v := r.Body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// Response is the result of an HTTP fetch.
type Response struct {
	// Status is the HTTP status code.
	Status int
	// Headers are the response headers, one value per name.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Header returns the value of a response header, ignoring case.
func (r *Response) Header(name string) string {
	if v, ok := r.Headers[http.CanonicalHeaderKey(name)]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
