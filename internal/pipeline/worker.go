package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dgallion1/scaffold/internal/materialize"
	"github.com/dgallion1/scaffold/internal/scaffold"
	"github.com/dgallion1/scaffold/internal/source"
)

// Worker processes a single scaffold job.
type Worker struct {
	workspace string
	srcOpts   source.Options
	stats     *LatencyStats
	log       *slog.Logger
}

func NewWorker(workspace string, pdfFallback bool, stats *LatencyStats, log *slog.Logger) *Worker {
	return &Worker{
		workspace: workspace,
		srcOpts:   source.Options{PDFFallbackPdftotext: pdfFallback},
		stats:     stats,
		log:       log,
	}
}

// JobDir returns the directory a job's scaffold is written under.
func JobDir(workspace, jobID string) string {
	return filepath.Join(workspace, jobID)
}

// Process loads, plans and materializes a job's document into its own
// directory under the workspace. Partial output from a failed write is left
// in place.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()
	defer job.releaseFileData()

	// Latency is recorded before the terminal status is published.
	fail := func(phase string, err error) {
		log.Error("job failed", "phase", phase, "error", err)
		w.stats.Record(time.Since(start), true)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
	}

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	src, err := source.ForFile(job.Filename, w.srcOpts)
	if err != nil {
		fail("loading", err)
		return
	}
	lines, err := src.Read(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		fail("loading", fmt.Errorf("%w: %v", scaffold.ErrInputUnreadable, err))
		return
	}

	// Phase 2: Plan
	job.SetStatus(StatusPlanning, "planning")
	dir := JobDir(w.workspace, job.ID)
	plan, err := scaffold.BuildPlan(lines, dir)
	if err != nil {
		fail("planning", err)
		return
	}
	for _, warn := range plan.Warnings {
		log.Warn("ambiguous content match", "file", warn.File, "candidates", warn.Candidates, "chosen", warn.Chosen)
	}
	log.Info("planned scaffold", "root", plan.Root, "dirs", len(plan.Dirs), "files", len(plan.Files))

	// Phase 3: Write
	job.SetStatus(StatusWriting, "writing")
	rep, err := materialize.Apply(ctx, plan, &materialize.Dir{Confine: dir})
	job.SetReport(rep)
	if err != nil {
		fail("writing", err)
		return
	}

	w.stats.Record(time.Since(start), false)
	job.SetStatus(StatusCompleted, "done")
	log.Info("scaffold written", "dirs", rep.Dirs, "files", len(rep.Files), "matched", rep.Matched)
}
