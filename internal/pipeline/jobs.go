package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/notebake/internal/bake"
)

// JobStatus represents the state of a vault export job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusBaking    JobStatus = "baking"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of one whole-vault export.
type Job struct {
	mu sync.Mutex

	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	OutputDir string    `json:"output_dir"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	settings bake.Settings
	errors   []string
}

// Progress tracks export progress.
type Progress struct {
	TotalNotes int      `json:"total_notes"`
	NotesBaked int      `json:"notes_baked"`
	Errors     []string `json:"errors"`
}

// NewJob creates a queued export job with the given settings.
func NewJob(outputDir string, settings bake.Settings) *Job {
	now := time.Now()
	seed := fmt.Sprintf("%s-%d", outputDir, now.UnixNano())
	return &Job{
		ID:        ContentHashHex([]byte(seed))[:20],
		Status:    StatusQueued,
		Phase:     "queued",
		OutputDir: outputDir,
		CreatedAt: now,
		UpdatedAt: now,
		settings:  settings,
	}
}

// Settings returns the bake settings captured at submission.
func (j *Job) Settings() bake.Settings {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.settings
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a per-note error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// ErrorCount returns the number of recorded errors.
func (j *Job) ErrorCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.errors)
}

// SetTotalNotes records how many notes the export covers.
func (j *Job) SetTotalNotes(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalNotes = n
	j.UpdatedAt = time.Now()
}

// IncrNotesBaked counts one finished note.
func (j *Job) IncrNotesBaked() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.NotesBaked++
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	OutputDir string    `json:"output_dir"`
	Progress  Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Phase:     j.Phase,
		OutputDir: j.OutputDir,
		Progress: Progress{
			TotalNotes: j.Progress.TotalNotes,
			NotesBaked: j.Progress.NotesBaked,
			Errors:     errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
