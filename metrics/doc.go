// Package metrics exports store activity to Prometheus.
package metrics
