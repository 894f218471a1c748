package tunbridge

import "github.com/xstream/tunbridge/pkg/tunbridge/logging"

// Config controls how a Bridge locates the engine.
type Config struct {
	// LibraryName is the shared object to dlopen. Empty means
	// DefaultLibraryName. Ignored when Loader is set.
	LibraryName string

	// SearchProcess resolves the entry points from the running executable
	// rather than a separate library. Ignored when Loader is set.
	SearchProcess bool

	// RetryUnavailable makes the bridge attempt resolution again on the next
	// operation after a failed attempt. By default the first failure is
	// cached for the lifetime of the Bridge.
	RetryUnavailable bool

	// Loader overrides the native dlopen loader.
	Loader Loader

	// Logger receives lifecycle events. Nil discards them.
	Logger logging.Logger
}

func (c Config) loader() Loader {
	if c.Loader != nil {
		return c.Loader
	}
	return NativeLoader{LibraryName: c.LibraryName, SearchProcess: c.SearchProcess}
}

func (c Config) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Noop
}

func (c Config) libraryName() string {
	switch {
	case c.Loader != nil:
		return ""
	case c.SearchProcess:
		return "(process image)"
	case c.LibraryName != "":
		return c.LibraryName
	}
	return DefaultLibraryName
}
