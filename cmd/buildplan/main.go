package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ochairo/buildplan/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// Exit codes
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("buildplan", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "Path to settings file (default: ./"+config.DefaultFile+" if present)")
	global.Usage = func() { printUsage(stderr) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if global.NArg() < 1 {
		printUsage(stderr)
		return exitUsage
	}

	command, rest := global.Arg(0), global.Args()[1:]
	switch command {
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	case "version":
		fmt.Fprintf(stdout, "buildplan %s\n", version)
		return exitOK
	}

	runner, ok := commands[command]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return exitUsage
	}

	return runner(ctx, newApp(cfg, stdout, stderr), rest)
}

type commandFunc func(ctx context.Context, a *app, args []string) int

var commands = map[string]commandFunc{
	"resolve":  runResolve,
	"validate": runValidate,
	"list":     runList,
	"verify":   runVerify,
	"sbom":     runSBOM,
	"audit":    runAudit,
	"monitor":  runMonitor,
	"serve":    runServe,
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `buildplan - Android build manifest resolver

Usage:
  buildplan [--config file] <command> [options]

Commands:
  resolve    Resolve a manifest into a build plan
  validate   Check a manifest without printing the plan
  list       List available manifests
  verify     Verify signatures, checksums and lockfiles
  sbom       Write a CycloneDX SBOM for a resolved plan
  audit      Scan resolved dependencies for known vulnerabilities
  monitor    Check resolved dependencies for newer releases
  serve      Serve the resolver over HTTP
  version    Print the version

Use "buildplan <command> --help" for more information about a command.`)
}
