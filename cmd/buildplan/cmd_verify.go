package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ochairo/buildplan/internal/domain-adapters/gateways"
	"github.com/ochairo/buildplan/internal/external-adapters/gpg"
)

const verifyUsage = `Usage: buildplan verify <file|manifest> [options]

Verify detached GPG signatures, SHA-256 checksums and lockfiles.

Supports multiple verification methods:
  - GPG: detached .asc or .sig signature against a keyring
  - Checksum: SHA-256 of the file
  - Lockfile: resolved versions of a manifest against a lockfile

Examples:
  # Verify a manifest signature (signature defaults to <file>.asc or <file>.sig)
  buildplan verify manifests/app.yaml --keyring release-keys.asc

  # Verify with an explicit signature
  buildplan verify manifests/app.yaml --sig app.yaml.sig --keyring https://example.com/KEYS

  # Verify a checksum
  buildplan verify manifests/app.yaml --sha256 9f86d081884c7d65...

  # Verify that a manifest still resolves to its lockfile
  buildplan verify app --lock buildplan.lock
`

type verifyOptions struct {
	sig         string
	keyring     string
	sha256      string
	lock        string
	manifestDir string
}

func runVerify(ctx context.Context, a *app, args []string) int {
	fs := a.newFlagSet("verify", verifyUsage)
	var opts verifyOptions
	fs.StringVar(&opts.sig, "sig", "", "Detached signature file (.asc or .sig)")
	fs.StringVar(&opts.keyring, "keyring", "", "Armored keyring file or URL (default from settings)")
	fs.StringVar(&opts.sha256, "sha256", "", "Expected SHA-256 checksum of the file")
	fs.StringVar(&opts.lock, "lock", "", "Lockfile the manifest must still resolve to")
	fs.StringVar(&opts.manifestDir, "dir", "", "Manifest directory (default from settings)")

	targets, code, ok := parseFlags(fs, args)
	if !ok {
		return code
	}
	if len(targets) != 1 {
		fmt.Fprintf(a.stderr, "Error: file path is required\n\n")
		fs.Usage()
		return exitUsage
	}

	wantSig := opts.sig != "" || opts.keyring != "" || a.cfg.Signature.Keyring != ""
	if !wantSig && opts.sha256 == "" && opts.lock == "" {
		fmt.Fprintf(a.stderr, "Error: nothing to verify; pass --sig/--keyring, --sha256 or --lock\n\n")
		fs.Usage()
		return exitUsage
	}

	return a.executeVerify(ctx, targets[0], opts, wantSig)
}

func (a *app) executeVerify(ctx context.Context, target string, opts verifyOptions, wantSig bool) int {
	verified := 0
	failed := 0

	fmt.Fprintf(a.stdout, "🔍 Verifying %s\n\n", filepath.Base(target))

	if opts.lock != "" {
		fmt.Fprintf(a.stdout, "🔒 Verifying lockfile...\n")
		if err := a.verifyLock(ctx, target, opts); err != nil {
			fmt.Fprintf(a.stdout, "❌ Lockfile verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Fprintf(a.stdout, "✅ Plan matches %s\n\n", opts.lock)
			verified++
		}
	}

	if opts.sha256 != "" {
		fmt.Fprintf(a.stdout, "📋 Verifying checksum...\n")
		if err := gateways.NewChecksumVerifier().VerifyChecksum(ctx, target, opts.sha256); err != nil {
			fmt.Fprintf(a.stdout, "❌ Checksum verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Fprintf(a.stdout, "✅ Checksum verified\n\n")
			verified++
		}
	}

	if wantSig {
		fmt.Fprintf(a.stdout, "🔐 Verifying GPG signature...\n")
		if err := a.verifyGPGSignature(ctx, target, opts.sig, opts.keyring); err != nil {
			fmt.Fprintf(a.stdout, "❌ GPG signature verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Fprintf(a.stdout, "✅ GPG signature verified\n\n")
			verified++
		}
	}

	fmt.Fprintf(a.stdout, "Summary: %d verified, %d failed\n", verified, failed)
	if failed > 0 {
		return exitFail
	}
	return exitOK
}

func (a *app) verifyLock(ctx context.Context, name string, opts verifyOptions) error {
	planner, err := a.planner(ctx, plannerOptions{manifestDir: opts.manifestDir, lockfile: opts.lock, keyring: opts.keyring})
	if err != nil {
		return err
	}
	result, err := planner.Plan(ctx, name)
	if err != nil {
		return err
	}
	if result.LockWarning != "" {
		fmt.Fprintf(a.stdout, "⚠️  %s\n", result.LockWarning)
	}
	return nil
}

func (a *app) verifyGPGSignature(ctx context.Context, filePath, sigPath, keyring string) error {
	verifier, err := a.verifier(ctx, keyring)
	if err != nil {
		return fmt.Errorf("failed to load keyring: %w", err)
	}
	if verifier == nil {
		return fmt.Errorf("no keyring configured (use --keyring)")
	}

	if sigPath == "" {
		sigPath = gpg.SignaturePath(filePath)
		if sigPath == "" {
			return fmt.Errorf("no signature found next to %s (.asc or .sig)", filePath)
		}
	}

	return verifier.VerifySignatureFromFile(filePath, sigPath)
}
