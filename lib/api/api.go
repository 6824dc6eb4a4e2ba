// Package api is the debug HTTP surface: the current context's
// capability report as JSON, prometheus metrics, and a websocket
// pushing current-context changes. It expects a Shared-visibility
// registry, since HTTP handlers run on their own threads and would
// see nothing in a thread-local one.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fosdem/glcaps/lib/config"
	"github.com/fosdem/glcaps/lib/extension"
	"github.com/fosdem/glcaps/lib/glctx"
	"github.com/fosdem/glcaps/lib/metrics"
)

type Api struct {
	srv      http.Server
	mux      *http.ServeMux
	cfg      *config.ApiCfg
	registry *glctx.Registry

	wsMu      sync.Mutex
	wsClients map[*websocket.Conn]bool
}

func New(cfg *config.ApiCfg, registry *glctx.Registry) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.registry = registry
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux

	a.wsClients = make(map[*websocket.Conn]bool)
	registry.AddListener(func(ctx *glctx.Context) {
		a.broadcastCurrentChanged(ctx)
	})
	return a
}

func (a *Api) Serve() error {
	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("/api/caps", a.getCaps)
	a.mux.HandleFunc("/api/ws", a.handleWebsocket)
	a.mux.Handle("/metrics", metrics.Handler())
	return a.srv.ListenAndServe()
}

// CapsReport is the JSON shape of /api/caps.
type CapsReport struct {
	Vendor                 string   `json:"vendor"`
	Renderer               string   `json:"renderer"`
	Version                string   `json:"version"`
	VersionString          string   `json:"version_string"`
	ShadingLanguageVersion string   `json:"shading_language_version"`
	SupportedExtensions    []string `json:"supported_extensions"`
	DisabledExtensions     []string `json:"disabled_extensions"`
	Workarounds            []string `json:"workarounds"`
}

func reportFor(ctx *glctx.Context) *CapsReport {
	report := &CapsReport{
		Vendor:                 ctx.VendorString(),
		Renderer:               ctx.RendererString(),
		Version:                ctx.Version().String(),
		VersionString:          ctx.VersionString(),
		ShadingLanguageVersion: ctx.ShadingLanguageVersionString(),
		Workarounds:            ctx.Workarounds(),
	}
	for _, e := range extension.All() {
		if ctx.IsExtensionDisabled(e.Index) {
			report.DisabledExtensions = append(report.DisabledExtensions, e.Name)
		} else if ctx.IsExtensionSupported(e.Index) {
			report.SupportedExtensions = append(report.SupportedExtensions, e.Name)
		}
	}
	return report
}

func (a *Api) getCaps(w http.ResponseWriter, _ *http.Request) {
	// single snapshot; another thread may clear the registry at any
	// point between two calls
	ctx, ok := a.registry.TryCurrent()
	if !ok {
		http.Error(w, "no current context", http.StatusNotFound)
		return
	}
	encoder := json.NewEncoder(w)
	err := encoder.Encode(reportFor(ctx))
	if err != nil {
		http.Error(w, fmt.Sprintf("could not encode caps: %s", err), http.StatusInternalServerError)
		return
	}
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

func ServeInBackground(registry *glctx.Registry, cfg *config.ApiCfg) *Api {
	var theApi *Api
	if cfg != nil {
		theApi = New(cfg, registry)

		log.Printf("starting web server\n")
		go func() {
			err := theApi.Serve()
			if err != nil {
				log.Fatalf("could not start web server: %s", err)
			}
		}()
	}
	return theApi
}
