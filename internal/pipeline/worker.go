package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/domrows/internal/convert"
	"github.com/dgallion1/domrows/internal/domrow"
	"github.com/dgallion1/domrows/internal/render"
	"github.com/dgallion1/domrows/internal/tabular"
)

// RowSaver persists linearized row sets under a name.
type RowSaver interface {
	Save(ctx context.Context, name string, rows []domrow.Row) error
}

// DirectionFor picks the conversion direction from a filename: row-set
// files are built, everything else is linearized.
func DirectionFor(filename string) Direction {
	if tabular.IsRowSetFile(filename) {
		return DirectionBuild
	}
	return DirectionLinearize
}

// Worker processes a single conversion job.
type Worker struct {
	conv  *convert.Converter
	store RowSaver
	log   *slog.Logger
}

// NewWorker creates a worker. store may be nil, in which case jobs asking
// to save their rows fail.
func NewWorker(conv *convert.Converter, store RowSaver, log *slog.Logger) *Worker {
	return &Worker{conv: conv, store: store, log: log}
}

// Process runs one job to completion or failure.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "direction", job.Direction, "filename", job.Filename)

	job.SetStatus(StatusLoading, "loading")
	data := job.FileData()
	if ctx.Err() != nil {
		w.fail(log, job, "loading", ctx.Err())
		return
	}

	switch job.Direction {
	case DirectionLinearize:
		w.linearize(ctx, log, job, data)
	case DirectionBuild:
		w.build(log, job, data)
	default:
		w.fail(log, job, "loading", fmt.Errorf("unknown direction %q", job.Direction))
	}
}

func (w *Worker) linearize(ctx context.Context, log *slog.Logger, job *Job, data []byte) {
	job.SetStatus(StatusConverting, "linearizing")
	rows, err := w.conv.Linearize(bytes.NewReader(data), job.Filename)
	if err != nil {
		w.fail(log, job, "linearizing", err)
		return
	}
	out, contentType, err := convert.EncodeRows(rows, job.Format)
	if err != nil {
		w.fail(log, job, "encoding", err)
		return
	}

	if job.SaveAs != "" {
		job.SetStatus(StatusStoring, "storing")
		if w.store == nil {
			w.fail(log, job, "storing", fmt.Errorf("no row store configured"))
			return
		}
		if err := w.store.Save(ctx, job.SaveAs, rows); err != nil {
			w.fail(log, job, "storing", fmt.Errorf("save %s: %w", job.SaveAs, err))
			return
		}
		log.Info("row set stored", "name", job.SaveAs, "rows", len(rows))
	}

	job.SetResult(out, contentType, len(rows))
	job.SetStatus(StatusCompleted, "done")
	log.Info("linearize complete", "rows", len(rows), "bytes", len(out))
}

func (w *Worker) build(log *slog.Logger, job *Job, data []byte) {
	job.SetStatus(StatusConverting, "building")
	mode, err := render.ParseMode(job.Output)
	if err != nil {
		w.fail(log, job, "building", err)
		return
	}
	out, err := w.conv.Build(bytes.NewReader(data), job.Filename, mode)
	if err != nil {
		w.fail(log, job, "building", err)
		return
	}

	job.SetResult(out, "text/html; charset=utf-8", 0)
	job.SetStatus(StatusCompleted, "done")
	log.Info("build complete", "bytes", len(out))
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("job failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}
