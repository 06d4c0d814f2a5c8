package main

import (
	"context"
	"fmt"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/external-adapters/yaml"
	"github.com/ochairo/buildplan/internal/httpapi"
)

const serveUsage = `Usage: buildplan serve [options]

Serve the resolver over HTTP.

Endpoints:
  GET  /health/live   liveness probe
  POST /v1/plans      resolve a YAML (or application/hcl) manifest body

The BoM catalog is loaded once at startup.

Examples:
  buildplan serve
  buildplan serve --addr 127.0.0.1:9090
`

func runServe(ctx context.Context, a *app, args []string) int {
	fs := a.newFlagSet("serve", serveUsage)
	addr := fs.String("addr", "", "Listen address (default from settings)")
	if _, code, ok := parseFlags(fs, args); !ok {
		return code
	}

	serverCfg := a.cfg.Server
	if *addr != "" {
		serverCfg.Addr = *addr
	}

	resolver, err := a.resolver()
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFail
	}
	catalog, err := a.bomRepository().LoadCatalog(ctx)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: failed to load BoM catalog: %v\n", err)
		return exitFail
	}

	yamlParser := yaml.NewManifestParser()
	hclParser := a.hclParser()
	handler := httpapi.NewPlanHandler(
		resolver,
		catalog,
		yamlParser.Parse,
		func(data []byte) (*entities.Manifest, error) { return hclParser.Parse(data, "request.hcl") },
		a.logger,
	)

	srv := httpapi.NewServer(serverCfg, httpapi.NewRouter(handler, httpapi.Logging(a.slog)), a.logger)
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFail
	}
	return exitOK
}
