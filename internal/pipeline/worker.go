package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/notebake/internal/bake"
	"github.com/dgallion1/notebake/internal/vault"
)

// Worker processes a single export job: it bakes every note in the vault
// and writes the flattened files under the job's output directory.
type Worker struct {
	vault *vault.Vault
	log   *slog.Logger
}

func NewWorker(v *vault.Vault, log *slog.Logger) *Worker {
	return &Worker{vault: v, log: log}
}

// Process runs the full export for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "output_dir", job.OutputDir)

	job.SetStatus(StatusBaking, "listing notes")
	notes, err := w.vault.Notes()
	if err != nil {
		log.Error("listing vault failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "listing notes")
		return
	}
	job.SetTotalNotes(len(notes))
	job.SetStatus(StatusBaking, "baking notes")

	baked := ExportNotes(ctx, w.vault, notes, job.OutputDir, job.Settings(), func(note string, err error) {
		job.AddError(fmt.Sprintf("%s: %v", note, err))
		log.Warn("note failed", "note", note, "error", err)
	}, func(note string) {
		job.IncrNotesBaked()
	})

	switch {
	case baked == 0 && len(notes) > 0:
		job.SetStatus(StatusFailed, "done")
	case job.ErrorCount() > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("export finished", "notes", len(notes), "baked", baked, "errors", job.ErrorCount())
}

// ExportNotes bakes the given notes one at a time, in order, and writes
// each result under outputDir mirroring the vault layout. It returns the
// number of notes written. Notes are processed sequentially: a bake is a
// depth-first recursion with its own offset bookkeeping and is not safe to
// interleave.
func ExportNotes(ctx context.Context, v *vault.Vault, notes []string, outputDir string, s bake.Settings, onError func(string, error), onDone func(string)) int {
	baked := 0
	for _, note := range notes {
		if ctx.Err() != nil {
			break
		}
		if err := exportOne(ctx, v, note, outputDir, s); err != nil {
			if onError != nil {
				onError(note, err)
			}
			continue
		}
		baked++
		if onDone != nil {
			onDone(note)
		}
	}
	return baked
}

func exportOne(ctx context.Context, v *vault.Vault, note, outputDir string, s bake.Settings) error {
	f, ok := v.Lookup(note)
	if !ok {
		return fmt.Errorf("note not found")
	}
	text, err := bake.Bake(ctx, v, f, "", s)
	if err != nil {
		return err
	}

	dest := filepath.Join(outputDir, filepath.FromSlash(note))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") && text != "" {
		text += "\n"
	}
	return os.WriteFile(dest, []byte(text), 0o644)
}
