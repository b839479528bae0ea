// Package service assembles a storekit process from its configuration: the
// cached store, the watch stream hub, prometheus and OpenTelemetry metrics,
// and the HTTP server, all under one bootstrap.App.
package service
