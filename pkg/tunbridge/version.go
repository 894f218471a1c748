package tunbridge

// Version is populated at build time via ldflags.
var Version = "v0.0.0-dev"

// WrapperVersion returns the bridge version. In development it defaults to
// v0.0.0-dev.
func WrapperVersion() string {
	return Version
}
