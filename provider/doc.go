// Package provider defines the request/response abstraction the fetch
// client is built on, plus the middlewares that wrap it.
//
// A RequestResponse[I, O] is anything with a Name, an availability check and
// an Execute method. Middlewares compose with Chain; the first middleware is
// the outermost:
//
//	client := provider.Chain(
//	    provider.WithLogging[fetch.Request, *fetch.Response](log),
//	    provider.WithTracing[fetch.Request, *fetch.Response]("storekit"),
//	    provider.WithRetry[fetch.Request, *fetch.Response](retryCfg),
//	)(fetch.NewHTTPClient(cfg))
package provider
