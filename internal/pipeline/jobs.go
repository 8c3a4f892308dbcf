package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusLoading    JobStatus = "loading"
	StatusConverting JobStatus = "converting"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Direction says which way a job converts.
type Direction string

const (
	// DirectionLinearize turns a source document into a row set.
	DirectionLinearize Direction = "linearize"
	// DirectionBuild turns a row set into HTML.
	DirectionBuild Direction = "build"
)

// Job tracks the state of a single file conversion.
type Job struct {
	mu sync.Mutex

	ID        string    `json:"job_id"`
	Direction Direction `json:"direction"`
	Filename  string    `json:"filename"`

	// Format is the row-set format for linearize jobs; Output is the render
	// mode for build jobs.
	Format string `json:"format,omitempty"`
	Output string `json:"output,omitempty"`
	// SaveAs names the stored row set a linearize job writes, if any.
	SaveAs string `json:"save_as,omitempty"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData    []byte
	result      []byte
	contentType string
	rowCount    int
	errors      []string
}

// NewJob creates a queued job for a file.
func NewJob(dir Direction, filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Direction:   dir,
		Filename:    filename,
		Status:      StatusQueued,
		Phase:       "queued",
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetResult stores the conversion output. The input bytes are released.
func (j *Job) SetResult(data []byte, contentType string, rows int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = data
	j.contentType = contentType
	j.rowCount = rows
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the output bytes and content type. ok is false until the
// job has completed.
func (j *Job) Result() (data []byte, contentType string, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusCompleted {
		return nil, "", false
	}
	return j.result, j.contentType, true
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Direction   Direction `json:"direction"`
	Filename    string    `json:"filename"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	SaveAs      string    `json:"save_as,omitempty"`
	ContentHash string    `json:"content_hash"`
	RowCount    int       `json:"row_count"`
	ResultBytes int       `json:"result_bytes"`
	Errors      []string  `json:"errors"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:          j.ID,
		Direction:   j.Direction,
		Filename:    j.Filename,
		Status:      j.Status,
		Phase:       j.Phase,
		SaveAs:      j.SaveAs,
		ContentHash: j.ContentHash,
		RowCount:    j.rowCount,
		ResultBytes: len(j.result),
		Errors:      errs,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
