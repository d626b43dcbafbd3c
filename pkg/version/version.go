// Package version reports the build version of holocron.
package version

import "github.com/Masterminds/semver/v3"

// DevVersion is reported when the binary was built without a release version.
const DevVersion = "0.0.0-dev"

// version is set at build time:
//
//	go build -ldflags "-X github.com/rshade/holocron/pkg/version.version=1.2.3"
var version = DevVersion //nolint:gochecknoglobals // Set via ldflags.

// GetVersion returns the build version. A value that is not a valid semantic
// version, such as an unexpanded placeholder, is reported as DevVersion.
func GetVersion() string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return DevVersion
	}
	return v.String()
}

