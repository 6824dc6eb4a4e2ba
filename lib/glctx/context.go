// Package glctx manages one active binding to an OpenGL driver
// context: detecting what the driver supports, applying disable
// overrides, and tracking which Context is current on which thread.
package glctx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fosdem/glcaps/lib/extension"
	"github.com/fosdem/glcaps/lib/metrics"
	"github.com/fosdem/glcaps/lib/override"
	"github.com/fosdem/glcaps/lib/version"
)

// ErrDetection marks failures to read required strings from the
// driver during construction. Detection is one-shot: a driver that
// errors on a handshake query is broken, retrying would not help.
var ErrDetection = errors.New("context detection failed")

// Context is the capability snapshot of one native GL context plus
// the policy overrides applied to it. It is built once, answers
// queries against its own snapshot from any thread, and is not
// copyable. At most one Context is current per thread; see Registry.
type Context struct {
	registry *Registry
	native   Native

	version          version.Version
	vendor           string
	renderer         string
	versionString    string
	slVersionString  string
	extensionStrings []string

	supported extension.Set
	disabled  extension.Set
	scoped    []override.ScopedDisable

	workarounds         []string
	disabledWorkarounds []string

	verbosity override.Verbosity
	destroyed bool
}

// NewContext takes ownership of native, detects its capabilities,
// applies the override policy from cfg, logs a summary and registers
// the new Context as current for the calling thread.
//
// The caller's previously current Context (if any) is deactivated
// for the duration of detection and restored on every failure path;
// on success the new Context ends up current instead. If any step
// fails the native handle is destroyed, nothing is registered, and
// the error is returned.
func NewContext(cfg Configuration, native Native, registry *Registry) (*Context, error) {
	if native == nil {
		return nil, fmt.Errorf("%w: no native context", ErrDetection)
	}
	if registry == nil {
		registry = DefaultRegistry
	}

	// Detection must not run against the caller's context; park it
	// and guarantee restoration until the new context takes over.
	prev := registry.peek()
	registry.MakeCurrent(nil)

	c, err := detect(cfg, native, registry)
	if err != nil {
		registry.MakeCurrent(prev)
		native.Destroy()
		metrics.DetectionFailures.Inc()
		return nil, err
	}

	registry.MakeCurrent(c)
	metrics.ContextsCreated.Inc()
	metrics.WorkaroundsActive.Set(float64(len(c.workarounds)))
	return c, nil
}

func detect(cfg Configuration, native Native, registry *Registry) (*Context, error) {
	c := &Context{registry: registry, native: native}

	var err error
	if c.vendor, err = native.Vendor(); err != nil {
		return nil, fmt.Errorf("%w: vendor string: %w", ErrDetection, err)
	}
	if c.renderer, err = native.Renderer(); err != nil {
		return nil, fmt.Errorf("%w: renderer string: %w", ErrDetection, err)
	}
	if c.versionString, err = native.Version(); err != nil {
		return nil, fmt.Errorf("%w: version string: %w", ErrDetection, err)
	}
	if c.slVersionString, err = native.ShadingLanguageVersion(); err != nil {
		return nil, fmt.Errorf("%w: shading language version string: %w", ErrDetection, err)
	}
	announced, err := native.Extensions()
	if err != nil {
		return nil, fmt.Errorf("%w: extension strings: %w", ErrDetection, err)
	}

	if c.version, err = version.Parse(c.versionString); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetection, err)
	}

	c.extensionStrings = extension.Normalize(announced)
	c.supported = extension.Parse(announced)
	for _, e := range extension.All() {
		// core functionality is present whether or not the driver
		// still bothers to advertise the extension. Core versions
		// only count within their own API family: an ES context
		// never inherits desktop-core extensions.
		if e.Core == version.None || e.Core.IsES() != c.version.IsES() {
			continue
		}
		if version.IsSupported(c.version, e.Core) {
			c.supported.Add(e.Index)
		}
	}

	r := override.Resolve(override.Options{
		ConfigQuiet:               cfg.Flags&QuietLog != 0,
		ConfigVerbose:             cfg.Flags&VerboseLog != 0,
		ConfigDisabledExtensions:  cfg.DisabledExtensions,
		ConfigDisabledWorkarounds: cfg.DisabledWorkarounds,
		Args:                      cfg.Args,
		LookupEnv:                 cfg.LookupEnv,
	})
	c.verbosity = r.Verbosity
	c.disabled = r.DisabledExtensions

	for _, w := range extension.KnownWorkarounds() {
		if !w.AppliesTo(c.vendor) {
			continue
		}
		if r.DisabledWorkarounds[w.Name] {
			c.disabledWorkarounds = append(c.disabledWorkarounds, w.Name)
			continue
		}
		c.workarounds = append(c.workarounds, w.Name)
	}

	// scoped disables bound to a workaround only fire while that
	// workaround is active
	for _, s := range r.ScopedDisables {
		if s.Workaround != "" && !c.IsWorkaroundActive(s.Workaround) {
			continue
		}
		c.scoped = append(c.scoped, s)
	}

	if c.verbosity != override.Quiet {
		for _, token := range r.Unknown {
			slog.Warn("ignoring unknown override token", "token", token)
		}
		sink := cfg.Log
		if sink == nil {
			sink = os.Stderr
		}
		c.Report(sink)
	}

	return c, nil
}

// Version returns the detected API version.
func (c *Context) Version() version.Version { return c.version }

// VendorString returns the raw GL_VENDOR string.
func (c *Context) VendorString() string { return c.vendor }

// RendererString returns the raw GL_RENDERER string.
func (c *Context) RendererString() string { return c.renderer }

// VersionString returns the raw GL_VERSION string.
func (c *Context) VersionString() string { return c.versionString }

// ShadingLanguageVersionString returns the raw
// GL_SHADING_LANGUAGE_VERSION string.
func (c *Context) ShadingLanguageVersionString() string { return c.slVersionString }

// ExtensionStrings returns every extension token the driver
// advertised, known or not, in the driver's order.
func (c *Context) ExtensionStrings() []string { return c.extensionStrings }

// Workarounds returns the names of driver workarounds active for
// this context, in registration order.
func (c *Context) Workarounds() []string { return c.workarounds }

// IsWorkaroundActive reports whether the named driver workaround is
// in effect.
func (c *Context) IsWorkaroundActive(name string) bool {
	for _, w := range c.workarounds {
		if w == name {
			return true
		}
	}
	return false
}

// IsVersionSupported reports whether this context can do everything
// the queried version specifies. ES versions queried against a
// desktop context resolve through the corresponding ARB
// compatibility extension.
func (c *Context) IsVersionSupported(v version.Version) bool {
	if v.IsES() != c.version.IsES() {
		if !v.IsES() {
			return false
		}
		switch v {
		case version.GLES200:
			return c.IsExtensionSupported(extension.ARBES2Compatibility)
		case version.GLES300:
			return c.IsExtensionSupported(extension.ARBES3Compatibility)
		case version.GLES310:
			return c.IsExtensionSupported(extension.ARBES31Compatibility)
		case version.GLES320:
			return c.IsExtensionSupported(extension.ARBES32Compatibility)
		}
		return false
	}
	return version.IsSupported(c.version, v)
}

// SupportedVersion returns the first candidate, in the given
// preference order, that this context supports.
func (c *Context) SupportedVersion(candidates ...version.Version) (version.Version, error) {
	for _, v := range candidates {
		if c.IsVersionSupported(v) {
			return v, nil
		}
	}
	return version.None, version.ErrUnsupported
}

// IsExtensionSupported reports whether the extension at the given
// capability table index can be used: the driver has it (advertised
// or core for the detected version) and no override disables it.
func (c *Context) IsExtensionSupported(index int) bool {
	return c.IsExtensionSupportedAt(index, c.version)
}

// IsExtensionSupportedAt is IsExtensionSupported with the
// version-scoped disable rules evaluated against v instead of the
// detected version. Shader code targeting an older #version uses
// this to keep scoped disables in force.
func (c *Context) IsExtensionSupportedAt(index int, v version.Version) bool {
	if !c.supported.Contains(index) {
		metrics.ExtensionQueries.WithLabelValues("unsupported").Inc()
		return false
	}
	if c.IsExtensionDisabledAt(index, v) {
		metrics.ExtensionQueries.WithLabelValues("disabled").Inc()
		return false
	}
	metrics.ExtensionQueries.WithLabelValues("supported").Inc()
	return true
}

// IsExtensionDisabled reports whether an override keeps the
// extension off at the detected version.
func (c *Context) IsExtensionDisabled(index int) bool {
	return c.IsExtensionDisabledAt(index, c.version)
}

// IsExtensionDisabledAt reports whether an override keeps the
// extension off at version v. A scoped disable only fires below its
// re-enablement version; the unconditional set fires regardless.
func (c *Context) IsExtensionDisabledAt(index int, v version.Version) bool {
	if c.disabled.Contains(index) {
		return true
	}
	for _, s := range c.scoped {
		if s.Index == index && !version.IsSupported(v, s.MinVersion) {
			return true
		}
	}
	return false
}

// Destroy deregisters the Context if it is current for the calling
// thread and releases the native handle. Safe to call once; the
// Context is unusable afterwards.
func (c *Context) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	if c.registry != nil && c.registry.peek() == c {
		c.registry.MakeCurrent(nil)
	}
	c.native.Destroy()
	metrics.ContextsDestroyed.Inc()
}
