package migration

import (
	"context"
	"fmt"

	"hybrid-search-be/internal/entity"
)

// Traffic fractions for canary rollout, doubling toward full cutover.
var canarySteps = []int{5, 10, 25, 50, 100}

// HealthCheck probes a namespace between rollout steps. A non-nil error
// aborts the rollout.
type HealthCheck func(ctx context.Context, namespace string) error

// TrafficShifter moves a percentage of query traffic onto a namespace.
// The serving layer owns the actual routing; the rollout only drives it.
type TrafficShifter func(ctx context.Context, namespace string, percent int) error

// RolloutResult reports how far a rollout got before completing or aborting.
type RolloutResult struct {
	Migration      *entity.Migration
	CutoverPercent int
	Aborted        bool
	AbortReason    string
}

// BlueGreen migrates into a secondary namespace, validates it, then moves all
// traffic at once after a single health check. On any failure the secondary
// namespace's data is deleted.
func (p *Pipeline) BlueGreen(
	ctx context.Context,
	source []*entity.Document,
	secondaryNamespace string,
	opts Options,
	health HealthCheck,
	shift TrafficShifter,
) (*RolloutResult, error) {
	opts.Namespace = secondaryNamespace
	opts.Validate = true

	m, err := p.Migrate(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	result := &RolloutResult{Migration: m}

	if m.Status != entity.MigrationCompleted {
		return p.abortRollout(ctx, result, secondaryNamespace, fmt.Sprintf("migration finished %s", m.Status))
	}
	if err := health(ctx, secondaryNamespace); err != nil {
		return p.abortRollout(ctx, result, secondaryNamespace, fmt.Sprintf("health check failed: %v", err))
	}
	if err := shift(ctx, secondaryNamespace, 100); err != nil {
		return p.abortRollout(ctx, result, secondaryNamespace, fmt.Sprintf("traffic shift failed: %v", err))
	}

	result.CutoverPercent = 100
	return result, nil
}

// Canary follows the same shape but moves traffic in increasing fractions,
// checking health after each step and aborting before full cutover if any
// check fails.
func (p *Pipeline) Canary(
	ctx context.Context,
	source []*entity.Document,
	secondaryNamespace string,
	opts Options,
	health HealthCheck,
	shift TrafficShifter,
) (*RolloutResult, error) {
	opts.Namespace = secondaryNamespace
	opts.Validate = true

	m, err := p.Migrate(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	result := &RolloutResult{Migration: m}

	if m.Status != entity.MigrationCompleted {
		return p.abortRollout(ctx, result, secondaryNamespace, fmt.Sprintf("migration finished %s", m.Status))
	}

	for _, percent := range canarySteps {
		if err := shift(ctx, secondaryNamespace, percent); err != nil {
			return p.abortRollout(ctx, result, secondaryNamespace, fmt.Sprintf("traffic shift to %d%% failed: %v", percent, err))
		}
		result.CutoverPercent = percent

		if err := health(ctx, secondaryNamespace); err != nil {
			return p.abortRollout(ctx, result, secondaryNamespace, fmt.Sprintf("health check failed at %d%%: %v", percent, err))
		}
	}

	return result, nil
}

// abortRollout deletes everything written to the secondary namespace. The
// delete is best-effort; the abort reason is what callers act on.
func (p *Pipeline) abortRollout(ctx context.Context, result *RolloutResult, namespace, reason string) (*RolloutResult, error) {
	result.Aborted = true
	result.AbortReason = reason

	if deleted, err := p.vectors.DeleteByNamespace(ctx, namespace); err != nil {
		p.logWarn(result.Migration, "failed to delete secondary namespace during abort", err)
	} else if p.logger != nil {
		p.logger.Info("migration", "rollout aborted, secondary namespace cleared", map[string]interface{}{
			"namespace": namespace,
			"deleted":   deleted,
			"reason":    reason,
		})
	}
	return result, nil
}
