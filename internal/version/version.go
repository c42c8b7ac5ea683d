package version

// Tag holds the build version for the solution binaries. It can be overridden
// at build time via: go build -ldflags "-X github.com/Black1604/cloud1604-solution/internal/version.Tag=v1.2.3".
var Tag = "dev"

// String returns the current build version, defaulting to "dev" when Tag is
// unset.
func String() string {
	if Tag == "" {
		return "dev"
	}
	return Tag
}
