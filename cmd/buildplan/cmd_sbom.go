package main

import (
	"context"
	"fmt"

	"github.com/ochairo/buildplan/internal/domain-adapters/gateways"
)

const sbomUsage = `Usage: buildplan sbom <manifest> [options]

Write a CycloneDX JSON SBOM for the resolved plan of a manifest.

Examples:
  buildplan sbom lupuscare
  buildplan sbom lupuscare --out lupuscare.cdx.json
`

func runSBOM(ctx context.Context, a *app, args []string) int {
	fs := a.newFlagSet("sbom", sbomUsage)
	var (
		out         = fs.String("out", "", "Write the SBOM to a file instead of stdout")
		manifestDir = fs.String("dir", "", "Manifest directory (default from settings)")
	)
	names, code, ok := parseFlags(fs, args)
	if !ok {
		return code
	}
	if len(names) != 1 {
		fmt.Fprintf(a.stderr, "Error: exactly one manifest is required\n\n")
		fs.Usage()
		return exitUsage
	}

	_, result, ok := a.resolveManifest(ctx, names[0], plannerOptions{manifestDir: *manifestDir})
	if !ok {
		return exitFail
	}

	sbom, err := gateways.NewSBOMGenerator(version).GenerateSBOM(ctx, result.Plan, result.ManifestPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFail
	}
	data, err := gateways.EncodeCycloneDX(sbom)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFail
	}
	if err := writeOutput(a.stdout, *out, data); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFail
	}

	if *out != "" {
		fmt.Fprintf(a.stderr, "📦 SBOM with %d components written to %s\n", len(sbom.Components), *out)
	}
	return exitOK
}
