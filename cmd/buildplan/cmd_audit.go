package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ochairo/buildplan/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/buildplan/internal/domain-orchestrators"
	"github.com/ochairo/buildplan/internal/domain/services"
)

const auditUsage = `Usage: buildplan audit <manifest> [options]

Scan the resolved dependencies of a manifest for known vulnerabilities (OSV).

Exit codes:
  0  audit passed
  1  audit blocked, failed its threshold or could not run
  2  usage error

Examples:
  buildplan audit lupuscare
  buildplan audit lupuscare --fail-on HIGH
  buildplan audit lupuscare --json
`

// auditOutput is the JSON form of an audit result
type auditOutput struct {
	Manifest        string               `json:"manifest"`
	Fingerprint     string               `json:"fingerprint"`
	Score           float64              `json:"score"`
	Blocked         bool                 `json:"blocked"`
	BlockReason     string               `json:"block_reason,omitempty"`
	Failed          bool                 `json:"failed"`
	Vulnerabilities []vulnerabilityEntry `json:"vulnerabilities"`
	Skipped         []string             `json:"skipped,omitempty"`
	ScanDate        string               `json:"scan_date"`
}

type vulnerabilityEntry struct {
	ID          string  `json:"id"`
	Severity    string  `json:"severity"`
	Score       float64 `json:"score,omitempty"`
	Component   string  `json:"component"`
	FixedIn     string  `json:"fixed_in,omitempty"`
	Description string  `json:"description,omitempty"`
}

func runAudit(ctx context.Context, a *app, args []string) int {
	fs := a.newFlagSet("audit", auditUsage)
	var (
		jsonOutput  = fs.Bool("json", false, "Output results as JSON")
		failOn      = fs.String("fail-on", "", "Fail at or above this severity: CRITICAL, HIGH, MEDIUM or LOW (default from settings)")
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

	if *failOn != "" && !services.IsThresholdSeverity(*failOn) {
		fmt.Fprintf(a.stderr, "Error: --fail-on must be one of: low, medium, high, critical; got %q\n", *failOn)
		return exitUsage
	}
	threshold := strings.ToUpper(*failOn)
	if threshold == "" {
		threshold = strings.ToUpper(a.cfg.Audit.FailOn)
	}

	return a.executeAudit(ctx, names[0], threshold, *jsonOutput, plannerOptions{manifestDir: *manifestDir})
}

func (a *app) executeAudit(ctx context.Context, name, failOn string, jsonOutput bool, opts plannerOptions) int {
	_, result, ok := a.resolveManifest(ctx, name, opts)
	if !ok {
		return exitFail
	}

	scanner := gateways.NewOSVGateway(gateways.OSVConfig{
		URL:            a.cfg.Audit.OSVURL,
		Timeout:        a.cfg.Audit.Timeout,
		MaxFailures:    a.cfg.Audit.MaxFailures,
		BreakerTimeout: a.cfg.Audit.BreakerTimeout,
	}, a.logger)
	orchestrator := orchestrators.NewAuditOrchestrator(services.NewAuditService(scanner), failOn)

	if !jsonOutput {
		fmt.Fprintf(a.stdout, "🔍 Auditing %d dependencies of %s\n\n", len(result.Plan.Dependencies), name)
	}

	audit, err := orchestrator.Audit(ctx, result.Plan)
	if err != nil {
		fmt.Fprintf(a.stderr, "❌ Audit failed: %v\n", err)
		return exitFail
	}

	if jsonOutput {
		out := auditOutput{
			Manifest:        name,
			Fingerprint:     result.Plan.Fingerprint,
			Score:           audit.Report.Score,
			Blocked:         audit.Blocked,
			BlockReason:     audit.BlockReason,
			Failed:          audit.Failed,
			Vulnerabilities: make([]vulnerabilityEntry, 0, len(audit.Report.Vulnerabilities)),
			Skipped:         audit.Report.Skipped,
			ScanDate:        audit.Report.ScanDate,
		}
		for _, v := range audit.Report.Vulnerabilities {
			out.Vulnerabilities = append(out.Vulnerabilities, vulnerabilityEntry{
				ID:          v.ID,
				Severity:    v.Severity,
				Score:       v.Score,
				Component:   v.Component,
				FixedIn:     v.FixedIn,
				Description: v.Description,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(a.stderr, "Error encoding JSON: %v\n", err)
			return exitFail
		}
		fmt.Fprintln(a.stdout, string(data))
	} else {
		fmt.Fprintln(a.stdout, orchestrator.GetAuditSummary(audit))
		high := orchestrator.GetHighSeverityVulnerabilities(audit.Report)
		if len(high) > 0 {
			fmt.Fprintf(a.stdout, "\nHigh severity vulnerabilities:\n")
			for _, v := range high {
				fixed := ""
				if v.FixedIn != "" {
					fixed = " (fixed in " + v.FixedIn + ")"
				}
				fmt.Fprintf(a.stdout, "  %-8s %-20s %s%s\n", v.Severity, v.ID, v.Component, fixed)
			}
		}
	}

	if audit.Blocked || audit.Failed {
		return exitFail
	}
	return exitOK
}
