package override

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fosdem/glcaps/lib/extension"
	"github.com/fosdem/glcaps/lib/version"
)

func envOf(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestVerbosityPrecedence(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want Verbosity
	}{
		{"default", Options{}, Normal},
		{"quiet via config", Options{ConfigQuiet: true}, Quiet},
		{"verbose via config", Options{ConfigVerbose: true}, Verbose},
		{"quiet and verbose at the same tier resolves to verbose",
			Options{ConfigQuiet: true, ConfigVerbose: true}, Verbose},
		{"quiet on command line",
			Options{Args: []string{"app", "--glcaps-log", "quiet"}}, Quiet},
		{"command line verbose beats config quiet",
			Options{ConfigQuiet: true, Args: []string{"app", "--glcaps-log", "verbose"}}, Verbose},
		{"command line quiet beats config verbose",
			Options{ConfigVerbose: true, Args: []string{"app", "--glcaps-log", "quiet"}}, Quiet},
		{"environment counts as the top tier",
			Options{ConfigVerbose: true, LookupEnv: envOf(map[string]string{"GLCAPS_LOG": "quiet"})}, Quiet},
		{"command line beats environment",
			Options{
				Args:      []string{"app", "--glcaps-log", "verbose"},
				LookupEnv: envOf(map[string]string{"GLCAPS_LOG": "quiet"}),
			}, Verbose},
		{"repeated tokens at the top tier, verbose wins",
			Options{Args: []string{"app", "--glcaps-log", "quiet", "--glcaps-log", "verbose"}}, Verbose},
		{"equals form",
			Options{Args: []string{"app", "--glcaps-log=quiet"}}, Quiet},
		{"unrelated log value is ignored",
			Options{Args: []string{"app", "--glcaps-log", "purple"}}, Normal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.opts).Verbosity)
		})
	}
}

func TestDisabledExtensions(t *testing.T) {
	t.Run("config tier", func(t *testing.T) {
		r := Resolve(Options{ConfigDisabledExtensions: []string{"GL_EXT_texture_filter_anisotropic"}})
		assert.True(t, r.DisabledExtensions.Contains(extension.EXTTextureFilterAnisotropic))
	})

	t.Run("command line tier", func(t *testing.T) {
		r := Resolve(Options{Args: []string{"app",
			"--glcaps-disable-extensions", "GL_EXT_texture_filter_anisotropic,GL_KHR_debug"}})
		assert.True(t, r.DisabledExtensions.Contains(extension.EXTTextureFilterAnisotropic))
		assert.True(t, r.DisabledExtensions.Contains(extension.KHRDebug))
	})

	t.Run("environment tier", func(t *testing.T) {
		r := Resolve(Options{LookupEnv: envOf(map[string]string{
			"GLCAPS_DISABLE_EXTENSIONS": "GL_KHR_no_error",
		})})
		assert.True(t, r.DisabledExtensions.Contains(extension.KHRNoError))
	})

	t.Run("tiers accumulate", func(t *testing.T) {
		r := Resolve(Options{
			ConfigDisabledExtensions: []string{"GL_KHR_debug"},
			Args:                     []string{"app", "--glcaps-disable-extensions", "GL_KHR_no_error"},
		})
		assert.True(t, r.DisabledExtensions.Contains(extension.KHRDebug))
		assert.True(t, r.DisabledExtensions.Contains(extension.KHRNoError))
	})

	t.Run("requesting a disable twice is the same as once", func(t *testing.T) {
		r := Resolve(Options{
			ConfigDisabledExtensions: []string{"GL_KHR_debug", "GL_KHR_debug"},
			Args:                     []string{"app", "--glcaps-disable-extensions", "GL_KHR_debug"},
		})
		assert.Equal(t, []int{extension.KHRDebug}, r.DisabledExtensions.Indices())
	})
}

func TestDisabledWorkarounds(t *testing.T) {
	r := Resolve(Options{ConfigDisabledWorkarounds: []string{"no-layout-qualifiers-on-old-glsl"}})
	assert.True(t, r.DisabledWorkarounds["no-layout-qualifiers-on-old-glsl"])

	r = Resolve(Options{Args: []string{"app",
		"--glcaps-disable-workarounds", "no-layout-qualifiers-on-old-glsl intel-windows-buffer-dsa-broken"}})
	assert.True(t, r.DisabledWorkarounds["no-layout-qualifiers-on-old-glsl"])
	assert.True(t, r.DisabledWorkarounds["intel-windows-buffer-dsa-broken"])
}

func TestUnknownTokens(t *testing.T) {
	// unknown names never abort resolution, they are collected for
	// the caller to log
	r := Resolve(Options{
		ConfigDisabledExtensions:  []string{"GL_FOO_imaginary"},
		ConfigDisabledWorkarounds: []string{"not-a-workaround"},
	})
	assert.ElementsMatch(t, []string{"GL_FOO_imaginary", "not-a-workaround"}, r.Unknown)
	assert.Equal(t, 0, r.DisabledExtensions.Len())
	assert.Empty(t, r.DisabledWorkarounds)
}

func TestDefaultScopedDisables(t *testing.T) {
	r := Resolve(Options{})
	require.NotEmpty(t, r.ScopedDisables)
	assert.Contains(t, r.ScopedDisables, ScopedDisable{
		Index:      extension.ARBExplicitAttribLocation,
		MinVersion: version.GL320,
		Workaround: extension.NoLayoutQualifiersOnOldGLSL,
	})
}

func TestStrip(t *testing.T) {
	args := []string{"app", "-v", "--glcaps-log", "quiet", "positional",
		"--glcaps-disable-extensions=GL_KHR_debug", "--other-flag"}
	assert.Equal(t, []string{"app", "-v", "positional", "--other-flag"}, Strip(args))

	// unrecognized tokens pass through untouched
	assert.Equal(t, []string{"--weird", "x"}, Strip([]string{"--weird", "x"}))
}
