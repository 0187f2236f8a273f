// Package buildinfo reports which siteplan build is running.
//
// The CLI prints it for --version and the HTTP server returns it from
// /healthz, so a layout can be traced back to the binary that produced it.
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/siteplan/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/siteplan/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/siteplan/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/siteplan
package buildinfo

import "fmt"

// Stamped at link time; unstamped builds report development values.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build identity as served by the API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// Get returns the current build identity.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Dev reports whether the binary was built without version stamping.
func (i Info) Dev() bool {
	return i.Version == "dev"
}

// String returns the formatted build information.
func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the version template string for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
