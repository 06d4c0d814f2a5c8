package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ochairo/buildplan/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/buildplan/internal/domain-orchestrators"
)

const monitorUsage = `Usage: buildplan monitor <manifest> [options]

Check the resolved dependencies of a manifest for newer stable releases in the
configured Maven repositories.

Examples:
  buildplan monitor lupuscare
  buildplan monitor lupuscare --outdated
  buildplan monitor lupuscare --json
`

func runMonitor(ctx context.Context, a *app, args []string) int {
	fs := a.newFlagSet("monitor", monitorUsage)
	var (
		jsonOutput   = fs.Bool("json", false, "Output results as JSON")
		outdatedOnly = fs.Bool("outdated", false, "Only show dependencies with a newer release")
		manifestDir  = fs.String("dir", "", "Manifest directory (default from settings)")
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

	fetcher := gateways.NewVersionFetcher(a.cfg.Monitor.Repositories, a.cfg.Monitor.Timeout)
	updates, err := orchestrators.NewMonitorOrchestrator(fetcher).CheckUpdates(ctx, result.Plan)
	if err != nil {
		fmt.Fprintf(a.stderr, "❌ Update check interrupted: %v\n", err)
		return exitFail
	}
	if *outdatedOnly {
		updates = orchestrators.Outdated(updates)
	}

	if *jsonOutput {
		data, err := json.MarshalIndent(updates, "", "  ")
		if err != nil {
			fmt.Fprintf(a.stderr, "Error encoding JSON: %v\n", err)
			return exitFail
		}
		fmt.Fprintln(a.stdout, string(data))
		return exitOK
	}

	outdated := 0
	for _, u := range updates {
		switch {
		case u.Error != "":
			fmt.Fprintf(a.stdout, "  ❌ %-55s %s\n", u.Artifact, u.Error)
		case u.UpdateNeeded:
			outdated++
			fmt.Fprintf(a.stdout, "  ⬆️  %-55s %s -> %s\n", u.Artifact, u.CurrentVersion, u.LatestVersion)
		default:
			fmt.Fprintf(a.stdout, "  ✅ %-55s %s\n", u.Artifact, u.CurrentVersion)
		}
	}
	fmt.Fprintf(a.stdout, "\n%d of %d dependencies have updates available\n", outdated, len(updates))
	return exitOK
}
