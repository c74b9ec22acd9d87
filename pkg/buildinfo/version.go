// Package buildinfo holds the version stamped into obsexport binaries.
//
// Development builds report "dev". Release builds are cut from a vX.Y.Z
// git tag and stamp the tag, the commit and the UTC build time:
//
//	tag=$(git describe --tags --exact-match)
//	go build -o obsexport -ldflags "\
//	    -X github.com/matzehuels/obsexport/pkg/buildinfo.Version=$tag \
//	    -X github.com/matzehuels/obsexport/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/obsexport/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/obsexport
//
// The version shows up in --version, in the User-Agent sent to the
// ObservableHQ API and in the /healthz answer of obsexport serve.
package buildinfo

import "fmt"

// Name is the program name used in version strings and the User-Agent.
const Name = "obsexport"

// Stamped via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent returns the User-Agent for requests to the ObservableHQ API,
// e.g. "obsexport/v1.2.0 (3f2c1ab)". Development builds omit the commit.
func UserAgent() string {
	if Commit == "none" || Commit == "" {
		return Name + "/" + Version
	}
	return fmt.Sprintf("%s/%s (%s)", Name, Version, Commit)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt:  %s\n", Version, Commit, Date)
}
