// Package nativegl is the driver-side collaborator backed by glfw
// and the go-gl bindings. It creates a hidden-window GL context and
// answers the detection queries glctx needs. Must run on a locked OS
// thread.
package nativegl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/fosdem/glcaps/lib/version"
)

type Options struct {
	// Requested context version; zero values default to 4.1 core.
	Major, Minor int
	// Title is only visible in debuggers, the window never shows.
	Title string
}

// GLContext wraps one glfw window and its GL context.
type GLContext struct {
	window *glfw.Window
}

// New initializes glfw, creates an invisible window with a GL
// context of the requested version and makes it current on the
// calling thread.
func New(opts Options) (*GLContext, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	major, minor := opts.Major, opts.Minor
	if major == 0 {
		major, minor = 4, 1
	}
	title := opts.Title
	if title == "" {
		title = "glcaps"
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, major)
	glfw.WindowHint(glfw.ContextVersionMinor, minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(1, 1, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create GL %d.%d context: %w", major, minor, err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("could not initialise OpenGL context: %w", err)
	}

	return &GLContext{window: window}, nil
}

func (c *GLContext) Vendor() (string, error) {
	return getString(gl.VENDOR)
}

func (c *GLContext) Renderer() (string, error) {
	return getString(gl.RENDERER)
}

func (c *GLContext) Version() (string, error) {
	return getString(gl.VERSION)
}

func (c *GLContext) ShadingLanguageVersion() (string, error) {
	return getString(gl.SHADING_LANGUAGE_VERSION)
}

// Extensions returns the advertised extensions: per-index strings on
// GL 3.0 and newer, the single legacy blob on anything older.
func (c *GLContext) Extensions() ([]string, error) {
	versionString, err := getString(gl.VERSION)
	if err != nil {
		return nil, err
	}
	v, err := version.Parse(versionString)
	if err != nil {
		return nil, err
	}

	if !version.IsSupported(v, version.GL300) {
		blob, err := getString(gl.EXTENSIONS)
		if err != nil {
			return nil, err
		}
		return []string{blob}, nil
	}

	var count int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &count)
	out := make([]string, 0, count)
	for i := range uint32(count) {
		ptr := gl.GetStringi(gl.EXTENSIONS, i)
		if ptr == nil {
			return nil, fmt.Errorf("driver returned no extension string at index %d", i)
		}
		out = append(out, gl.GoStr(ptr))
	}
	return out, nil
}

func (c *GLContext) Destroy() {
	c.window.Destroy()
	glfw.Terminate()
}

func getString(name uint32) (string, error) {
	ptr := gl.GetString(name)
	if ptr == nil {
		return "", fmt.Errorf("driver returned no string for query 0x%04x", name)
	}
	return gl.GoStr(ptr), nil
}
