// Package build carries build metadata embedded at compile time. The raw
// JSON is injected with -ldflags by the release process; everything here
// degrades gracefully when the binary was built without it.
package build

import (
	"encoding/json"
	"log/slog"
)

// raw holds the JSON-encoded build info, injected via
// -ldflags "-X github.com/hydrokit/modelparams/build.raw=...".
var raw string //nolint:gochecknoglobals

// Info contains build metadata that is typically embedded at compile time.
type Info struct {
	GitCommit    string            `json:"git_commit"` //nolint:tagliatelle
	GitBranch    string            `json:"git_branch"` //nolint:tagliatelle
	GitDate      string            `json:"git_date"`   //nolint:tagliatelle
	BuildTime    string            `json:"build_time"` //nolint:tagliatelle
	BuildHost    string            `json:"build_host"` //nolint:tagliatelle
	BuildUser    string            `json:"build_user"` //nolint:tagliatelle
	GoVersion    string            `json:"go_version"` //nolint:tagliatelle
	Dependencies map[string]string `json:"dependencies"`
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if len(js) == 0 {
		return nil, false
	}

	if js == "{}" {
		return nil, false
	}

	var info Info

	err := json.Unmarshal([]byte(js), &info)
	if err != nil {
		slog.Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// Get returns the build info embedded in this binary, if any.
func Get() (*Info, bool) {
	return Parse(raw)
}

// shortCommitLen is how much of the git commit lands in Version strings.
const shortCommitLen = 12

// Version returns a short human-readable version string for banners and
// telemetry. Binaries built without embedded info report "dev".
func Version() string {
	info, ok := Get()
	if !ok || info.GitCommit == "" {
		return "dev"
	}

	commit := info.GitCommit
	if len(commit) > shortCommitLen {
		commit = commit[:shortCommitLen]
	}

	if info.GitBranch != "" && info.GitBranch != "main" {
		return commit + " (" + info.GitBranch + ")"
	}

	return commit
}
