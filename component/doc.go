// Package component defines the lifecycle of the long-running parts of a
// storekit service.
//
// A Component starts, stops and reports health. The Registry starts
// components in registration order and stops them in reverse, so the store
// is registered before the HTTP server that reads from it. Components may
// also implement Describable and RouteProvider to appear in the bootstrap
// startup summary.
package component
