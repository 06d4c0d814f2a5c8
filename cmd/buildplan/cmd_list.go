package main

import (
	"context"
	"fmt"
)

const listUsage = `Usage: buildplan list [options]

List all manifests in the manifest directory.

Examples:
  buildplan list
  buildplan list --dir android/manifests
`

func runList(ctx context.Context, a *app, args []string) int {
	fs := a.newFlagSet("list", listUsage)
	dir := fs.String("dir", "", "Manifest directory (default from settings)")
	if _, code, ok := parseFlags(fs, args); !ok {
		return code
	}

	repo := a.manifestRepository(*dir)
	manifests, err := repo.ListManifests(ctx)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error listing manifests: %v\n", err)
		return exitFail
	}

	fmt.Fprintf(a.stdout, "Available manifests (%d total):\n\n", len(manifests))
	for _, m := range manifests {
		fmt.Fprintf(a.stdout, "  %-20s %s\n", m.Name, m.DefaultConfig.ApplicationID)
		fmt.Fprintf(a.stdout, "  %-20s SDK: min %d, target %d, compile %d\n", "",
			m.DefaultConfig.MinSdk, m.DefaultConfig.TargetSdk, m.CompileSdk)
		fmt.Fprintf(a.stdout, "  %-20s Plugins: %d, dependencies: %d\n", "", len(m.Plugins), len(m.Dependencies))
		if len(m.SigningConfigs) > 0 {
			fmt.Fprintf(a.stdout, "  %-20s 🔐 Signing configs: %d\n", "", len(m.SigningConfigs))
		}
		fmt.Fprintln(a.stdout)
	}
	return exitOK
}
