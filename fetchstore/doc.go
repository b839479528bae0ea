// Package fetchstore wires the store to the simple cache and an HTTP fetch
// client. New builds a ready Store, Fetch loads a request under its cache
// key and Query follows one request's key.
//
//	s, err := fetchstore.New(fetchstore.WithConfig(fetch.Config{BaseURL: "https://api.example.com"}))
//	if err != nil {
//	    return err
//	}
//	p, err := fetchstore.Fetch(ctx, s.Config(), fetch.Request{URL: "/users"})
package fetchstore
