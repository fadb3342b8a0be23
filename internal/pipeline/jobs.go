package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/scaffold/internal/materialize"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
)

// JobStatus represents the state of a scaffold job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusLoading   JobStatus = "loading"
	StatusPlanning  JobStatus = "planning"
	StatusWriting   JobStatus = "writing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single document being materialized.
type Job struct {
	mu sync.Mutex

	ID       string
	Filename string
	Digest   digest.Digest // Digest of the uploaded document

	Status JobStatus
	Phase  string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Internal: not serialized.
	fileData []byte
	report   *materialize.Report
	errors   []string
}

// NewJob creates a queued job for an uploaded document.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Digest:    digest.FromBytes(data),
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
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

// Delete forgets a job.
func (s *JobStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
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

// SetReport records the materialization report.
func (j *Job) SetReport(rep *materialize.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.report = rep
	j.UpdatedAt = time.Now()
}

// FileData returns the raw document bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseFileData drops the document bytes once they are no longer needed.
func (j *Job) releaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string              `json:"job_id"`
	Filename  string              `json:"filename"`
	Digest    digest.Digest       `json:"digest"`
	Status    JobStatus           `json:"status"`
	Phase     string              `json:"phase"`
	Errors    []string            `json:"errors"`
	Report    *materialize.Report `json:"report,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Digest:    j.Digest,
		Status:    j.Status,
		Phase:     j.Phase,
		Errors:    errs,
		Report:    j.report,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
