package main

import (
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/fosdem/glcaps/lib/api"
	"github.com/fosdem/glcaps/lib/config"
	"github.com/fosdem/glcaps/lib/glctx"
	glcapslog "github.com/fosdem/glcaps/lib/log"
	"github.com/fosdem/glcaps/lib/nativegl"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	slog.SetDefault(slog.New(glcapslog.NewHandler(nil)))

	cfg := glctx.Configuration{
		Args:      os.Args,
		LookupEnv: os.LookupEnv,
		Log:       os.Stdout,
	}

	var apiCfg *config.ApiCfg
	if len(os.Args) > 1 && os.Args[1] != "" && os.Args[1][0] != '-' {
		fileCfg, err := config.Parse(os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
		cfg = fileCfg.Configuration()
		cfg.Log = os.Stdout
		apiCfg = fileCfg.Api
	}

	// the debug api reads the registry from its own threads, so it
	// needs the shared-visibility variant
	visibility := glctx.ThreadLocal
	if apiCfg != nil {
		visibility = glctx.Shared
	}
	registry := glctx.NewRegistry(visibility)

	native, err := nativegl.New(nativegl.Options{})
	if err != nil {
		log.Fatalf("could not create a GL context: %s", err)
	}

	ctx, err := glctx.NewContext(cfg, native, registry)
	if err != nil {
		log.Fatalf("could not detect GL capabilities: %s", err)
	}
	defer ctx.Destroy()

	if apiCfg == nil {
		return
	}

	api.ServeInBackground(registry, apiCfg)
	select {}
}
