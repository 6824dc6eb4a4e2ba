package glctx

// Native is the driver-side collaborator a Context wraps. The
// Context owns it: once handed to NewContext, Destroy is called
// exactly once, by the Context, and nobody else may touch it.
//
// Query methods are one-shot synchronous driver calls made during
// detection. Any error from them is fatal to context construction.
type Native interface {
	Vendor() (string, error)
	Renderer() (string, error)
	Version() (string, error)
	ShadingLanguageVersion() (string, error)

	// Extensions returns the advertised extension names. Drivers
	// before GL 3.0 expose one space-separated blob, later ones a
	// per-index list; either shape may come back here.
	Extensions() ([]string, error)

	Destroy()
}
