// Package buildinfo holds the version stamp printed by "stackmotion --version"
// and written to the debug log at the start of every generation run.
//
// Release builds stamp the variables through the linker:
//
//	go build -ldflags "\
//	    -X github.com/matzehuels/stackmotion/pkg/buildinfo.Version=$(git describe --tags) \
//	    -X github.com/matzehuels/stackmotion/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/stackmotion/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/stackmotion
//
// Unstamped binaries, including "go run" and test builds, report "dev".
package buildinfo

import "fmt"

var (
	// Version is the release tag of the stackmotion binary, or "dev".
	Version = "dev"

	// Commit is the short SHA the binary was built from.
	Commit = "none"

	// Date is the UTC build time in RFC 3339 form.
	Date = "unknown"
)

// Template is the cobra version template used for "stackmotion --version".
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
