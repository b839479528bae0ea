// Package version holds the build information reported by the storekit
// binary, the /info endpoint and the startup summary.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/storekit/version.Version=1.0.0" ./cmd/storekit
package version
