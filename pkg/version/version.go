// Package version carries build metadata for the portspeed binary.
package version

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/newtron-network/portspeed/pkg/version.Version=v1.0.0 \
//	  -X github.com/newtron-network/portspeed/pkg/version.GitCommit=abc1234 \
//	  -X github.com/newtron-network/portspeed/pkg/version.BuildDate=2026-01-01T00:00:00Z"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Line returns the version line printed by "<prog> version".
func Line(prog string) string {
	if Version == "dev" {
		return prog + " dev build"
	}
	return prog + " " + Version + " (" + GitCommit + ") built " + BuildDate
}
