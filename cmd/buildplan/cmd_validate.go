package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/services"
)

const validateUsage = `Usage: buildplan validate <manifest> [options]

Resolve a manifest and report the first problem found. With --release the
resolved plan must also be fit for a store upload: the build type exists, is
signed with a non-debug config and is minified. --strict also rejects plans
with warnings.

Exit codes:
  0  manifest is valid
  1  manifest is invalid or could not be loaded
  2  usage error
`

func runValidate(ctx context.Context, a *app, args []string) int {
	fs := a.newFlagSet("validate", validateUsage)
	var (
		quiet       = fs.Bool("quiet", false, "Print nothing; report through the exit code only")
		manifestDir = fs.String("dir", "", "Manifest directory (default from settings)")
		lock        = fs.String("lock", "", "Also fail when the plan drifts from this lockfile")
		release     = fs.String("release", "", "Check release readiness of this build type (e.g., release)")
		strict      = fs.Bool("strict", false, "With --release, treat plan warnings as failures")
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

	opts := validateOptions{quiet: *quiet, releaseBuildType: *release, strict: *strict}
	return a.executeValidate(ctx, names[0], opts, plannerOptions{manifestDir: *manifestDir, lockfile: *lock})
}

type validateOptions struct {
	quiet            bool
	releaseBuildType string
	strict           bool
}

func (a *app) executeValidate(ctx context.Context, name string, vopts validateOptions, opts plannerOptions) int {
	quiet := vopts.quiet
	planner, err := a.planner(ctx, opts)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFail
	}

	result, err := planner.Plan(ctx, name)
	if err != nil {
		if !quiet {
			var cerr entities.ConfigError
			if errors.As(err, &cerr) {
				fmt.Fprintf(a.stdout, "❌ %s is invalid\n   %s [%s]: %v\n", name, cerr.FieldPath(), cerr.Kind(), cerr)
			} else {
				fmt.Fprintf(a.stdout, "❌ %s: %v\n", name, err)
			}
		}
		return exitFail
	}

	if vopts.releaseBuildType != "" {
		validation := services.NewReleaseService().ValidateRelease(result.Plan, vopts.releaseBuildType, vopts.strict)
		if !validation.IsReady() {
			if !quiet {
				fmt.Fprintf(a.stdout, "❌ %s is not ready for release\n   %s\n", name, validation.ErrorMessage())
			}
			return exitFail
		}
	}

	if !quiet {
		plan := result.Plan
		fmt.Fprintf(a.stdout, "✅ %s is valid (%d plugins, %d dependencies)\n",
			name, len(plan.Plugins), len(plan.Dependencies))
		if vopts.releaseBuildType != "" {
			fmt.Fprintf(a.stdout, "   🚀 build type %q is ready for release\n", vopts.releaseBuildType)
		}
		for _, w := range plan.Warnings {
			fmt.Fprintf(a.stdout, "   ⚠️  %s\n", w)
		}
	}
	return exitOK
}
