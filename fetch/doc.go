// Package fetch executes the network requests that populate a store.
//
// A Client is a provider.RequestResponse[Request, *Response], so the
// provider middleware (logging, tracing, metrics, retry) wraps it like any
// other provider. HTTPClient is the net/http implementation:
//
//	client, err := fetch.NewHTTPClient(fetch.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 10 * time.Second,
//	})
//
// A Fetcher turns a request into the value stored under its key.
// DefaultFetcher stores a *Payload for every response, including error
// statuses, and reports an error only when no response arrived:
//
//	res := fetch.DefaultFetcher(ctx, client, fetch.Request{URL: "/users/1"})
package fetch
