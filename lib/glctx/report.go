package glctx

import (
	"fmt"
	"io"

	"github.com/fosdem/glcaps/lib/extension"
	"github.com/fosdem/glcaps/lib/override"
)

// Report writes the human-readable capability summary: renderer and
// version lines always, then the active workaround and disabled
// extension blocks when non-empty. Under verbose logging the
// supported extensions are listed too. This is the same block that
// context creation emits unless quiet.
func (c *Context) Report(w io.Writer) {
	fmt.Fprintf(w, "Renderer: %s by %s\n", c.renderer, c.vendor)
	fmt.Fprintf(w, "OpenGL version: %s\n", c.versionString)

	if c.verbosity == override.Verbose {
		fmt.Fprintf(w, "Using %s\n", c.version)
		fmt.Fprintf(w, "Supported extensions:\n")
		for _, e := range extension.All() {
			if c.supported.Contains(e.Index) && !c.IsExtensionDisabled(e.Index) {
				fmt.Fprintf(w, "    %s\n", e.Name)
			}
		}
	}

	if len(c.workarounds) > 0 {
		fmt.Fprintf(w, "Using driver workarounds:\n")
		for _, name := range c.workarounds {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}

	disabled := c.disabledExtensionNames()
	if len(disabled) > 0 {
		fmt.Fprintf(w, "Disabling extensions:\n")
		for _, name := range disabled {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}
}

// disabledExtensionNames lists, in table order, every extension some
// override keeps off at the detected version.
func (c *Context) disabledExtensionNames() []string {
	var out []string
	for _, e := range extension.All() {
		if c.IsExtensionDisabled(e.Index) {
			out = append(out, e.Name)
		}
	}
	return out
}
