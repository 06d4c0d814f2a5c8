package orchestrators

import (
	"context"
	"sort"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces/gateways"
)

// MonitorOrchestrator checks resolved dependencies for newer published versions
type MonitorOrchestrator struct {
	checker gateways.UpdateChecker
}

// NewMonitorOrchestrator creates a new monitor orchestrator
func NewMonitorOrchestrator(checker gateways.UpdateChecker) *MonitorOrchestrator {
	return &MonitorOrchestrator{checker: checker}
}

// CheckUpdates queries each distinct artifact of the plan once, sorted by
// artifact. Checking stops early when ctx is canceled and the results gathered
// so far are returned with ctx's error.
func (o *MonitorOrchestrator) CheckUpdates(ctx context.Context, plan *entities.BuildPlan) ([]entities.UpdateInfo, error) {
	seen := make(map[string]bool, len(plan.Dependencies))
	deps := make([]entities.ResolvedDependency, 0, len(plan.Dependencies))
	for _, d := range plan.Dependencies {
		if seen[d.Key()] {
			continue
		}
		seen[d.Key()] = true
		deps = append(deps, d)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Key() < deps[j].Key() })

	updates := make([]entities.UpdateInfo, 0, len(deps))
	for _, d := range deps {
		if err := ctx.Err(); err != nil {
			return updates, err
		}
		updates = append(updates, o.checker.CheckUpdate(ctx, d))
	}
	return updates, nil
}

// Outdated returns the updates that need action
func Outdated(updates []entities.UpdateInfo) []entities.UpdateInfo {
	var out []entities.UpdateInfo
	for _, u := range updates {
		if u.UpdateNeeded {
			out = append(out, u)
		}
	}
	return out
}
