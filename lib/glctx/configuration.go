package glctx

import "io"

// Flags adjusts context creation behavior.
type Flags uint8

const (
	// QuietLog suppresses the capability summary written during
	// context creation.
	QuietLog Flags = 1 << iota
	// VerboseLog additionally lists every supported extension.
	// When both flags are set, verbose wins.
	VerboseLog
)

// Configuration is the caller-built recipe for a Context. It is read
// during NewContext and not retained; the zero value is a usable
// default (normal logging, no forced disables, diagnostics to
// stderr).
type Configuration struct {
	Flags Flags

	// DisabledExtensions and DisabledWorkarounds name capabilities
	// to force off, on top of whatever the command line and the
	// compiled-in defaults say. Unknown names are tolerated.
	DisabledExtensions  []string
	DisabledWorkarounds []string

	// Args is the raw command line, scanned for --glcaps-* override
	// tokens. Everything else in it is left alone. LookupEnv
	// supplies the environment equivalents; nil means the process
	// environment is not consulted.
	Args      []string
	LookupEnv func(string) (string, bool)

	// Log is the diagnostic sink for the capability summary. Nil
	// means stderr.
	Log io.Writer
}
