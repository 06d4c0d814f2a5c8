package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/ochairo/buildplan/internal/config"
	orchestrators "github.com/ochairo/buildplan/internal/domain-orchestrators"
	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces"
	"github.com/ochairo/buildplan/internal/domain/interfaces/gateways"
	"github.com/ochairo/buildplan/internal/domain/interfaces/repositories"
	"github.com/ochairo/buildplan/internal/domain/services"
	"github.com/ochairo/buildplan/internal/external-adapters/gpg"
	"github.com/ochairo/buildplan/internal/external-adapters/hcl"
	"github.com/ochairo/buildplan/internal/external-adapters/yaml"
	"github.com/ochairo/buildplan/internal/logging"
)

// app carries the loaded settings and output streams shared by every command
type app struct {
	cfg    *config.Config
	slog   *slog.Logger
	logger interfaces.Logger
	stdout io.Writer
	stderr io.Writer
}

func newApp(cfg *config.Config, stdout, stderr io.Writer) *app {
	sl := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	return &app{
		cfg:    cfg,
		slog:   sl,
		logger: logging.NewAdapter(sl),
		stdout: stdout,
		stderr: stderr,
	}
}

// newFlagSet creates a flag set that reports errors instead of exiting
func (a *app) newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprint(a.stderr, usage)
		fmt.Fprintln(a.stderr, "\nOptions:")
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses args, allowing flags after positional arguments, and
// returns the positional arguments. ok is false when parsing stops the command
// with the returned exit code.
func parseFlags(fs *flag.FlagSet, args []string) (positional []string, code int, ok bool) {
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, exitOK, false
			}
			return nil, exitUsage, false
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, exitOK, true
		}
		if rest[0] == "--" {
			return append(positional, rest[1:]...), exitOK, true
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// manifestRepository returns the manifest store with HCL support registered
func (a *app) manifestRepository(dir string) *yaml.ManifestRepository {
	if dir == "" {
		dir = a.cfg.Resolver.ManifestDir
	}
	repo := yaml.NewManifestRepository(dir, a.logger)
	repo.RegisterParser(".hcl", a.hclParser())
	return repo
}

func (a *app) hclParser() *hcl.ManifestParser {
	f := a.cfg.Flutter
	return hcl.NewManifestParser(hcl.FlutterVariables{
		MinSdk:      f.MinSdk,
		TargetSdk:   f.TargetSdk,
		CompileSdk:  f.CompileSdk,
		NdkVersion:  f.NdkVersion,
		VersionCode: f.VersionCode,
		VersionName: f.VersionName,
	})
}

func (a *app) bomRepository() repositories.BomRepository {
	return yaml.NewBomCatalogRepository(a.cfg.Resolver.BomDir)
}

func (a *app) resolver() (*services.ResolverService, error) {
	var plugins entities.PluginCatalog
	if path := a.cfg.Resolver.PluginCatalog; path != "" {
		catalog, err := yaml.LoadPluginCatalog(path)
		if err != nil {
			return nil, err
		}
		plugins = catalog
	}
	return services.NewResolverService(a.logger, services.ResolverOptions{
		PluginOrder: a.cfg.Resolver.PluginOrder,
		Plugins:     plugins,
	}), nil
}

// verifier loads the configured keyring, or returns nil when none is set
func (a *app) verifier(ctx context.Context, keyring string) (*gpg.Verifier, error) {
	if keyring == "" {
		keyring = a.cfg.Signature.Keyring
	}
	if keyring == "" {
		return nil, nil
	}
	v := gpg.NewVerifier()
	if err := v.LoadKeyring(ctx, keyring); err != nil {
		return nil, err
	}
	a.logger.Debug("Keyring loaded", interfaces.F("keys", v.GetKeyringSize()))
	return v, nil
}

type plannerOptions struct {
	manifestDir string
	lockfile    string
	keyring     string
}

// planner wires the plan orchestrator from settings and per-command overrides
func (a *app) planner(ctx context.Context, opts plannerOptions) (*orchestrators.PlanOrchestrator, error) {
	resolver, err := a.resolver()
	if err != nil {
		return nil, err
	}

	v, err := a.verifier(ctx, opts.keyring)
	if err != nil {
		return nil, err
	}
	var verifier gateways.SignatureVerifier
	if v != nil {
		verifier = v
	}

	lockfile := opts.lockfile
	if lockfile == "" {
		lockfile = a.cfg.Resolver.Lockfile
	}

	return orchestrators.NewPlanOrchestrator(
		a.manifestRepository(opts.manifestDir),
		a.bomRepository(),
		yaml.NewLockfileStore(),
		verifier,
		resolver,
		a.logger,
		orchestrators.PlanOrchestratorConfig{
			LockfilePath:     lockfile,
			RequireSignature: a.cfg.Signature.Require,
			SignatureLookup:  gpg.SignaturePath,
		},
	), nil
}

// plan resolves one manifest, printing failures to stderr
func (a *app) plan(ctx context.Context, planner *orchestrators.PlanOrchestrator, name string) (*orchestrators.PlanResult, bool) {
	result, err := planner.Plan(ctx, name)
	if err != nil {
		fmt.Fprintf(a.stderr, "❌ %v\n", err)
		return result, false
	}
	if result.LockWarning != "" {
		fmt.Fprintf(a.stderr, "⚠️  %s\n", result.LockWarning)
	}
	for _, w := range result.Plan.Warnings {
		a.logger.Warn("Plan warning", interfaces.F("warning", w))
	}
	return result, true
}

// resolveManifest wires a planner and resolves one manifest
func (a *app) resolveManifest(ctx context.Context, name string, opts plannerOptions) (*orchestrators.PlanOrchestrator, *orchestrators.PlanResult, bool) {
	planner, err := a.planner(ctx, opts)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return nil, nil, false
	}
	result, ok := a.plan(ctx, planner, name)
	return planner, result, ok
}
