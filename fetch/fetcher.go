package fetch

import (
	"context"
	"encoding/json"
	"mime"
	"strings"
)

// Payload is what DefaultFetcher stores for a completed response. Non-2xx
// responses are payloads too; only transport failures are errors.
type Payload struct {
	OK      bool              `json:"ok"`
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	// Body is the decoded JSON value for JSON responses, otherwise the body
	// as a string.
	Body any `json:"body"`
}

// Result is the outcome of a Fetcher.
type Result struct {
	Data any
	Err  error
}

// Fetcher runs a request through a client and shapes the outcome into the
// value stored under the request's key.
type Fetcher func(ctx context.Context, client Client, req Request) Result

// DefaultFetcher executes req and returns a *Payload. A response with an
// error status still yields a payload; Err is set only when no response was
// received.
func DefaultFetcher(ctx context.Context, client Client, req Request) Result {
	resp, err := client.Execute(ctx, req)
	if resp == nil {
		if err == nil {
			err = errEmptyResponse
		}
		return Result{Err: err}
	}
	return Result{Data: NewPayload(resp)}
}

// NewPayload decodes resp into a Payload.
func NewPayload(resp *Response) *Payload {
	p := &Payload{
		OK:      resp.OK(),
		Status:  resp.Status,
		Headers: resp.Headers,
		Body:    string(resp.Body),
	}
	if len(resp.Body) > 0 && isJSON(resp.Header("Content-Type")) {
		var decoded any
		if err := json.Unmarshal(resp.Body, &decoded); err == nil {
			p.Body = decoded
		}
	}
	return p
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
