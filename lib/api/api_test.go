package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fosdem/glcaps/lib/config"
	"github.com/fosdem/glcaps/lib/glctx"
)

type fakeNative struct{}

func (fakeNative) Vendor() (string, error)   { return "Mesa", nil }
func (fakeNative) Renderer() (string, error) { return "llvmpipe (LLVM 15.0.7, 256 bits)", nil }
func (fakeNative) Version() (string, error)  { return "4.5 (Core Profile) Mesa 23.1.4", nil }
func (fakeNative) ShadingLanguageVersion() (string, error) {
	return "4.50", nil
}
func (fakeNative) Extensions() ([]string, error) {
	return []string{"GL_ARB_vertex_array_object", "GL_KHR_debug"}, nil
}
func (fakeNative) Destroy() {}

func testApi(t *testing.T) (*Api, *glctx.Registry) {
	t.Helper()
	// the api reads the registry from http handler goroutines, so
	// it pairs with shared visibility
	reg := glctx.NewRegistry(glctx.Shared)
	return New(&config.ApiCfg{Bind: ":0"}, reg), reg
}

func TestGetCapsNoContext(t *testing.T) {
	a, _ := testApi(t)

	rec := httptest.NewRecorder()
	a.getCaps(rec, httptest.NewRequest(http.MethodGet, "/api/caps", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCaps(t *testing.T) {
	a, reg := testApi(t)

	ctx, err := glctx.NewContext(glctx.Configuration{Flags: glctx.QuietLog}, fakeNative{}, reg)
	require.NoError(t, err)
	defer ctx.Destroy()

	rec := httptest.NewRecorder()
	a.getCaps(rec, httptest.NewRequest(http.MethodGet, "/api/caps", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report CapsReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Equal(t, "Mesa", report.Vendor)
	assert.Equal(t, "OpenGL 4.5", report.Version)
	assert.Contains(t, report.SupportedExtensions, "GL_ARB_vertex_array_object")
	// core since 4.5, supported even though the fake driver does
	// not advertise it
	assert.Contains(t, report.SupportedExtensions, "GL_ARB_direct_state_access")
	assert.NotContains(t, report.SupportedExtensions, "GL_GREMEDY_string_marker")
	assert.Contains(t, report.Workarounds, "mesa-implementation-color-read-format-dsa-broken")
}

func TestCapsEventPayload(t *testing.T) {
	reg := glctx.NewRegistry(glctx.Shared)
	ctx, err := glctx.NewContext(glctx.Configuration{Flags: glctx.QuietLog}, fakeNative{}, reg)
	require.NoError(t, err)
	defer ctx.Destroy()

	event := CapsEvent{Event: "current-changed", Report: reportFor(ctx)}
	packet, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(packet), `"event":"current-changed"`)
	assert.Contains(t, string(packet), `"renderer":"llvmpipe`)
}
