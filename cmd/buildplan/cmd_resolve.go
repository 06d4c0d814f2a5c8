package main

import (
	"context"
	"fmt"
)

const resolveUsage = `Usage: buildplan resolve <manifest> [options]

Resolve a manifest into a build plan. <manifest> is a name under the manifest
directory or a path to a .yaml, .yml or .hcl file.

Examples:
  buildplan resolve lupuscare
  buildplan resolve manifests/app.hcl --format json --out plan.json
  buildplan resolve lupuscare --write-lock buildplan.lock
  buildplan resolve lupuscare --lock buildplan.lock
`

func runResolve(ctx context.Context, a *app, args []string) int {
	fs := a.newFlagSet("resolve", resolveUsage)
	var (
		format      = fs.String("format", formatYAML, "Output format: yaml or json")
		out         = fs.String("out", "", "Write the plan to a file instead of stdout")
		writeLock   = fs.String("write-lock", "", "Write a lockfile for the resolved plan")
		lock        = fs.String("lock", "", "Fail when the plan drifts from this lockfile")
		manifestDir = fs.String("dir", "", "Manifest directory (default from settings)")
		keyring     = fs.String("keyring", "", "Armored keyring file or URL for manifest signatures")
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
	if *format != formatYAML && *format != formatJSON {
		fmt.Fprintf(a.stderr, "Error: unknown format %q (want yaml or json)\n", *format)
		return exitUsage
	}

	return a.executeResolve(ctx, names[0], *format, *out, *writeLock,
		plannerOptions{manifestDir: *manifestDir, lockfile: *lock, keyring: *keyring})
}

func (a *app) executeResolve(ctx context.Context, name, format, out, writeLock string, opts plannerOptions) int {
	planner, result, ok := a.resolveManifest(ctx, name, opts)
	if !ok {
		return exitFail
	}

	data, err := encode(result.Plan, format)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFail
	}
	if err := writeOutput(a.stdout, out, data); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFail
	}

	if writeLock != "" {
		if err := planner.WriteLock(ctx, result.Plan, writeLock); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitFail
		}
		fmt.Fprintf(a.stderr, "🔒 Lockfile written to %s\n", writeLock)
	}

	return exitOK
}
