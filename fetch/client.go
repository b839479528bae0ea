package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/provider"
)

// HeaderRequestID is set on every outbound request that does not carry one.
const HeaderRequestID = "X-Request-ID"

// Client executes fetch requests. Any provider middleware can wrap it.
type Client = provider.RequestResponse[Request, *Response]

// HTTPClient is the default Client, backed by net/http.
type HTTPClient struct {
	httpClient *http.Client
	config     Config
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient applies defaults to cfg, validates it and builds a client
// on a clone of the default transport.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, errors.Misconfigured("fetch.tls", err.Error())
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg

	return &HTTPClient{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
	}, nil
}

func (c *HTTPClient) Name() string { return "http" }

func (c *HTTPClient) IsAvailable(context.Context) bool { return true }

// Execute sends req and reads the whole response body. A status of 400 or
// above comes back as both the Response and a classified *errors.AppError,
// so retry middleware can decide on it and the payload is kept.
func (c *HTTPClient) Execute(ctx context.Context, req Request) (*Response, error) {
	target := c.ResolveURL(req.URL)
	if _, err := url.Parse(target); err != nil || target == "" {
		return nil, errors.InvalidInput("url", fmt.Sprintf("cannot fetch %q", req.URL))
	}
	httpReq, err := req.build(ctx, target, c.config.Headers)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Timeout("fetch").WithCause(err)
		}
		return nil, errors.ConnectionFailed(httpReq.URL.Host).WithCause(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ConnectionFailed(httpReq.URL.Host).WithCause(fmt.Errorf("read response body: %w", err))
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}
	result := &Response{Status: resp.StatusCode, Headers: headers, Body: body}
	if appErr := errors.FromHTTPStatus(resp.StatusCode, httpReq.URL.String()); appErr != nil {
		return result, appErr
	}
	return result, nil
}

// ResolveURL appends raw to the configured base URL unless raw is absolute.
func (c *HTTPClient) ResolveURL(raw string) string {
	if c.config.BaseURL == "" || strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(raw, "/")
}

// stamp gives every outbound request an id unless the caller set one.
func stamp(h http.Header) {
	if h.Get(HeaderRequestID) == "" {
		h.Set(HeaderRequestID, uuid.NewString())
	}
}
