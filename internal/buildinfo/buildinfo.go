// Package buildinfo holds the version string stamped into jackc builds via
// -ldflags, falling back to a development placeholder when built without
// them (e.g. `go run`, `go test`).
package buildinfo

// Version is overridden at link time with:
//
//	go build -ldflags "-X github.com/libklein/jackc/internal/buildinfo.Version=v1.2.3"
var Version = "(devel)"
