// Package pipeline orchestrates one reconciliation run: snapshot the
// record store, resolve applicant/employee links, update role mappings,
// aggregate metrics, assess data quality, and publish the result
// atomically.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hr-analytics-cli/internal/inference"
	"github.com/sells-group/hr-analytics-cli/internal/metrics"
	"github.com/sells-group/hr-analytics-cli/internal/model"
	"github.com/sells-group/hr-analytics-cli/internal/quality"
	"github.com/sells-group/hr-analytics-cli/internal/resolve"
	"github.com/sells-group/hr-analytics-cli/internal/store"
)

// ErrNoData is returned when the record store holds no source records
// to process.
var ErrNoData = eris.New("pipeline: no data to process")

// Runner wires the pipeline stages together over a store.
type Runner struct {
	Store      store.Store
	Resolver   *resolve.Resolver
	Aggregator *metrics.Aggregator
}

// New builds a Runner with the given resolver options and metrics
// concurrency.
func New(st store.Store, resolveOpts resolve.Options, concurrency int) *Runner {
	return &Runner{
		Store:      st,
		Resolver:   resolve.New(resolveOpts),
		Aggregator: &metrics.Aggregator{Concurrency: concurrency},
	}
}

// Run executes one full pipeline pass and publishes the result. The
// stages are pure functions over the snapshot, so a failed run leaves
// the previously published run untouched.
func (r *Runner) Run(ctx context.Context) (*model.RunResult, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	snap, err := r.Store.Snapshot(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: snapshot")
	}
	if snap.Empty() {
		return nil, ErrNoData
	}
	counts := snap.Counts()
	log.Info("snapshot taken",
		zap.Int("applicants", counts.Applicants),
		zap.Int("employees", counts.Employees),
		zap.Int("employment_types", counts.EmploymentTypes),
	)

	links := r.Resolver.Resolve(snap)
	log.Info("entities resolved", zap.Int("links", len(links)))

	prior, err := r.Store.Mappings(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load prior mappings")
	}
	mappings := inference.Infer(prior, links)
	validations := inference.Validate(mappings, links)
	conflicts := 0
	for _, m := range mappings {
		if m.Conflicting() {
			conflicts++
		}
	}
	log.Info("mappings inferred",
		zap.Int("mappings", len(mappings)),
		zap.Int("conflicts", conflicts),
	)

	funnel, groupErrs := r.Aggregator.Funnel(ctx, snap, links, mappings)
	if len(groupErrs) > 0 {
		log.Warn("some metric groups failed", zap.Int("failed_groups", len(groupErrs)))
	}
	rollups := r.Aggregator.Rollups(funnel, snap.Employees)
	profiles := r.Aggregator.Profiles(snap, links)
	report := quality.Report(snap, links, mappings)

	result := &model.RunResult{
		ID:          runID,
		StartedAt:   started,
		FinishedAt:  time.Now().UTC(),
		Counts:      counts,
		Links:       links,
		Mappings:    mappings,
		Validations: validations,
		Funnel:      funnel,
		Rollups:     rollups,
		Profiles:    profiles,
		Quality:     report,
		GroupErrors: groupErrs,
	}

	if err := r.Store.SaveMappings(ctx, mappings); err != nil {
		return nil, eris.Wrap(err, "pipeline: save mappings")
	}
	if err := r.Store.PublishRun(ctx, result); err != nil {
		return nil, eris.Wrap(err, "pipeline: publish run")
	}

	log.Info("run published",
		zap.Int("funnel_groups", len(funnel)),
		zap.Int("rollups", len(rollups)),
		zap.Duration("elapsed", result.FinishedAt.Sub(started)),
	)
	return result, nil
}
