// Package override merges capability policy from its three sources:
// compiled-in defaults, the Configuration handed to context creation,
// and command-line/environment tokens. Precedence runs command line
// over configuration over defaults; since disablement is additive the
// tiers union for the disabled sets, and precedence proper only
// decides log verbosity.
package override

import (
	"strings"

	"github.com/fosdem/glcaps/lib/extension"
	"github.com/fosdem/glcaps/lib/version"
)

// Command-line tokens and their environment equivalents. An argv
// token wins over its environment counterpart.
const (
	LogArg                = "--glcaps-log"
	DisableWorkaroundsArg = "--glcaps-disable-workarounds"
	DisableExtensionsArg  = "--glcaps-disable-extensions"

	LogEnv                = "GLCAPS_LOG"
	DisableWorkaroundsEnv = "GLCAPS_DISABLE_WORKAROUNDS"
	DisableExtensionsEnv  = "GLCAPS_DISABLE_EXTENSIONS"
)

// Verbosity is the resolved logging level.
type Verbosity int

const (
	Normal Verbosity = iota
	Quiet
	Verbose
)

// ScopedDisable disables one extension only below MinVersion; at
// MinVersion and above the extension behaves as if the rule did not
// exist. Used to route around driver compiler bugs fixed in later
// hardware generations.
type ScopedDisable struct {
	Index      int
	MinVersion version.Version

	// Workaround, when non-empty, names the driver workaround this
	// rule is part of. The rule only fires while that workaround is
	// active; disabling the workaround lifts the rule with it.
	Workaround string
}

// Known-buggy behavior compensated for unless explicitly switched
// off: layout qualifiers miscompile on pre-3.2 GLSL compilers, so the
// extension disable rides on the same workaround.
var defaultScopedDisables = []ScopedDisable{
	{extension.ARBExplicitAttribLocation, version.GL320, extension.NoLayoutQualifiersOnOldGLSL},
}

// Options carries the per-tier inputs to Resolve. ConfigQuiet and
// friends are the explicit Configuration tier; Args and LookupEnv the
// top tier. LookupEnv is injectable so tests never touch the process
// environment.
type Options struct {
	ConfigQuiet               bool
	ConfigVerbose             bool
	ConfigDisabledExtensions  []string
	ConfigDisabledWorkarounds []string

	Args      []string
	LookupEnv func(string) (string, bool)
}

// Resolution is the merged policy.
type Resolution struct {
	Verbosity           Verbosity
	DisabledExtensions  extension.Set
	ScopedDisables      []ScopedDisable
	DisabledWorkarounds map[string]bool

	// Unknown collects override tokens naming no registered
	// extension or workaround. Tolerated, reported for logging.
	Unknown []string
}

// Resolve computes the final policy from all three tiers.
func Resolve(opts Options) Resolution {
	r := Resolution{
		ScopedDisables:      defaultScopedDisables,
		DisabledWorkarounds: make(map[string]bool),
	}

	r.Verbosity = resolveVerbosity(opts)

	addExtensions := func(names []string) {
		for _, name := range names {
			if i, ok := extension.FromName(name); ok {
				r.DisabledExtensions.Add(i)
			} else {
				r.Unknown = append(r.Unknown, name)
			}
		}
	}
	addWorkarounds := func(names []string) {
		for _, name := range names {
			if extension.IsKnownWorkaround(name) {
				r.DisabledWorkarounds[name] = true
			} else {
				r.Unknown = append(r.Unknown, name)
			}
		}
	}

	addExtensions(opts.ConfigDisabledExtensions)
	addWorkarounds(opts.ConfigDisabledWorkarounds)

	addExtensions(splitList(topTierValue(opts, DisableExtensionsArg, DisableExtensionsEnv)))
	addWorkarounds(splitList(topTierValue(opts, DisableWorkaroundsArg, DisableWorkaroundsEnv)))

	return r
}

// resolveVerbosity walks the tiers bottom-up so a higher tier's
// request replaces a lower one's. Within a single tier verbose beats
// quiet: asking for more information is never silently suppressed by
// an equally-ranked quiet request.
func resolveVerbosity(opts Options) Verbosity {
	v := Normal

	if opts.ConfigQuiet {
		v = Quiet
	}
	if opts.ConfigVerbose {
		v = Verbose
	}

	quiet, verbose := false, false
	if value, ok := lookup(opts, LogEnv); ok {
		quiet = value == "quiet"
		verbose = value == "verbose"
	}
	if values := argValues(opts.Args, LogArg); len(values) > 0 {
		// argv overrides the environment outright
		quiet, verbose = false, false
		for _, value := range values {
			quiet = quiet || value == "quiet"
			verbose = verbose || value == "verbose"
		}
	}
	if verbose {
		return Verbose
	}
	if quiet {
		return Quiet
	}
	return v
}

// topTierValue merges the environment and argv forms of one list
// token. Both contribute; argv values come last so repeated tokens
// accumulate in command-line order.
func topTierValue(opts Options, arg, env string) string {
	var parts []string
	if value, ok := lookup(opts, env); ok {
		parts = append(parts, value)
	}
	parts = append(parts, argValues(opts.Args, arg)...)
	return strings.Join(parts, " ")
}

func lookup(opts Options, key string) (string, bool) {
	if opts.LookupEnv == nil {
		return "", false
	}
	return opts.LookupEnv(key)
}

// argValues extracts the values of every occurrence of token in
// args, accepting both "--token value" and "--token=value". All
// other argv entries pass through this layer untouched.
func argValues(args []string, token string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if args[i] == token && i+1 < len(args) {
			out = append(out, args[i+1])
			i++
			continue
		}
		if value, ok := strings.CutPrefix(args[i], token+"="); ok {
			out = append(out, value)
		}
	}
	return out
}

// Strip returns args without any glcaps override tokens, for callers
// that feed the remainder to their own argument parsing.
func Strip(args []string) []string {
	tokens := []string{LogArg, DisableWorkaroundsArg, DisableExtensionsArg}
	var out []string
	for i := 0; i < len(args); i++ {
		consumed := false
		for _, token := range tokens {
			if args[i] == token {
				if i+1 < len(args) {
					i++
				}
				consumed = true
				break
			}
			if strings.HasPrefix(args[i], token+"=") {
				consumed = true
				break
			}
		}
		if !consumed {
			out = append(out, args[i])
		}
	}
	return out
}

// splitList splits a comma- or whitespace-separated list of names.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
