// Package extension holds the capability table: the process-wide,
// read-only registry of every OpenGL extension this codebase knows
// how to take advantage of, plus the parser that matches a driver's
// advertised extension strings against it.
package extension

import "github.com/fosdem/glcaps/lib/version"

// Extension describes one known extension: its vendor-prefixed name
// as it appears in the driver's extension string, the version at
// which it became core functionality (None if it never did), and its
// stable index into the capability table.
type Extension struct {
	Index int
	Name  string
	Core  version.Version
}

// Indices into the capability table. The order is frozen; new
// extensions go at the end, before Count.
const (
	ARBES2Compatibility = iota
	ARBES3Compatibility
	ARBES31Compatibility
	ARBES32Compatibility
	ARBVertexArrayObject
	ARBExplicitAttribLocation
	ARBSeparateShaderObjects
	ARBGetProgramBinary
	ARBTextureStorage
	ARBInvalidateSubdata
	ARBMultiBind
	ARBBufferStorage
	ARBDirectStateAccess
	ARBClipControl
	ARBTextureFilterAnisotropic
	ARBRobustness
	EXTTextureFilterAnisotropic
	EXTDebugLabel
	EXTDebugMarker
	KHRDebug
	KHRNoError
	GREMEDYStringMarker

	// Count is the size of the capability table.
	Count
)

var table = [Count]Extension{
	{ARBES2Compatibility, "GL_ARB_ES2_compatibility", version.GL410},
	{ARBES3Compatibility, "GL_ARB_ES3_compatibility", version.GL430},
	{ARBES31Compatibility, "GL_ARB_ES3_1_compatibility", version.GL450},
	{ARBES32Compatibility, "GL_ARB_ES3_2_compatibility", version.None},
	{ARBVertexArrayObject, "GL_ARB_vertex_array_object", version.GL300},
	{ARBExplicitAttribLocation, "GL_ARB_explicit_attrib_location", version.GL330},
	{ARBSeparateShaderObjects, "GL_ARB_separate_shader_objects", version.GL410},
	{ARBGetProgramBinary, "GL_ARB_get_program_binary", version.GL410},
	{ARBTextureStorage, "GL_ARB_texture_storage", version.GL420},
	{ARBInvalidateSubdata, "GL_ARB_invalidate_subdata", version.GL430},
	{ARBMultiBind, "GL_ARB_multi_bind", version.GL440},
	{ARBBufferStorage, "GL_ARB_buffer_storage", version.GL440},
	{ARBDirectStateAccess, "GL_ARB_direct_state_access", version.GL450},
	{ARBClipControl, "GL_ARB_clip_control", version.GL450},
	{ARBTextureFilterAnisotropic, "GL_ARB_texture_filter_anisotropic", version.GL460},
	{ARBRobustness, "GL_ARB_robustness", version.None},
	{EXTTextureFilterAnisotropic, "GL_EXT_texture_filter_anisotropic", version.None},
	{EXTDebugLabel, "GL_EXT_debug_label", version.None},
	{EXTDebugMarker, "GL_EXT_debug_marker", version.None},
	{KHRDebug, "GL_KHR_debug", version.GL430},
	{KHRNoError, "GL_KHR_no_error", version.GL460},
	{GREMEDYStringMarker, "GL_GREMEDY_string_marker", version.None},
}

var byName = func() map[string]int {
	m := make(map[string]int, Count)
	for i := range table {
		m[table[i].Name] = i
	}
	return m
}()

// Lookup returns the descriptor for a capability table index. Index
// validity is a registration-time contract, not a runtime question.
func Lookup(index int) Extension {
	return table[index]
}

// All returns every known extension in registration order. The order
// is stable and is what deterministic logging relies on.
func All() []Extension {
	return table[:]
}

// FromName returns the table index for a vendor-prefixed extension
// name, or false if the name is not a known extension.
func FromName(name string) (int, bool) {
	i, ok := byName[name]
	return i, ok
}
