package extension

import "strings"

// Workaround names a driver-defect compensation that the rendering
// code can key behavior on. VendorMatch, when non-empty, restricts
// the workaround to drivers whose vendor string contains it.
type Workaround struct {
	Name        string
	VendorMatch string
}

// NoLayoutQualifiersOnOldGLSL is named in code because the
// version-scoped disable of GL_ARB_explicit_attrib_location belongs
// to it; switching the workaround off lifts that disable too.
const NoLayoutQualifiersOnOldGLSL = "no-layout-qualifiers-on-old-glsl"

// The known-workarounds registry. Like the capability table it is
// frozen after process start; names are what override tokens and
// config files refer to.
var workarounds = []Workaround{
	{NoLayoutQualifiersOnOldGLSL, ""},
	{"mesa-implementation-color-read-format-dsa-broken", "Mesa"},
	{"intel-windows-buffer-dsa-broken", "Intel"},
	{"nv-uniform-location-retrieval-broken", "NVIDIA"},
	{"swiftshader-empty-extension-string", "SwiftShader"},
}

// KnownWorkarounds returns every registered workaround in
// registration order.
func KnownWorkarounds() []Workaround {
	return workarounds
}

// IsKnownWorkaround reports whether name refers to a registered
// workaround.
func IsKnownWorkaround(name string) bool {
	for _, w := range workarounds {
		if w.Name == name {
			return true
		}
	}
	return false
}

// AppliesTo reports whether the workaround is relevant for a driver
// identifying itself with the given vendor string.
func (w Workaround) AppliesTo(vendor string) bool {
	return w.VendorMatch == "" || strings.Contains(vendor, w.VendorMatch)
}
