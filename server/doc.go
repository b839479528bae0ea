// Package server exposes a store over HTTP with Gin, served over HTTP/1.1
// and h2c.
//
// Routes registered by RegisterStoreRoutes:
//
//	GET    /keys              list cached keys
//	DELETE /keys              empty the cache
//	GET    /keys/:key         current projection of a key
//	DELETE /keys/:key         drop a key's data
//	GET    /keys/:key/watch   Server-Sent Events stream of the key's changes
//	POST   /fetch             fetch a request into the store
//
// Deleting a key sends a "deleted" event to the streams watching it and
// emptying the cache sends "reset" to every stream.
//
// RegisterDefaultEndpoints adds /healthz, /livez, /readyz, /info and
// /metrics. Middleware lives in server/middleware and the health handlers in
// server/endpoint.
package server
