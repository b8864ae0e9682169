package api

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of one conversion job.
type JobStatus string

const (
	StatusPending JobStatus = "pending"
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusFailed  JobStatus = "failed"
)

// maxJobLogs bounds per-job log retention.
const maxJobLogs = 200

// Job tracks one conversion through the API.
type Job struct {
	ID          string         `json:"id"`
	Status      JobStatus      `json:"status"`
	Progress    int            `json:"progress"`
	Stage       string         `json:"stage,omitempty"`
	Logs        []string       `json:"logs,omitempty"`
	Error       string         `json:"error,omitempty"`
	WorkDir     string         `json:"work_dir,omitempty"`
	ZipPath     string         `json:"zip_path,omitempty"`
	PublishedTo string         `json:"published_to,omitempty"`
	Rows        map[string]int `json:"rows,omitempty"`
	Issues      []string       `json:"issues,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
}

// JobStore is an in-memory job registry. Jobs survive only as long as the
// process; this server converts files, it is not a work queue.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobStore returns an empty store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Create registers a new pending job.
func (s *JobStore) Create() *Job {
	j := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()
	return j
}

// Get returns a snapshot of the job, or nil.
func (s *JobStore) Get(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil
	}
	cp := *j
	cp.Logs = append([]string(nil), j.Logs...)
	cp.Issues = append([]string(nil), j.Issues...)
	return &cp
}

// List returns snapshots of all jobs, newest first.
func (s *JobStore) List() []*Job {
	s.mu.RLock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	jobs := make([]*Job, 0, len(ids))
	for _, id := range ids {
		if j := s.Get(id); j != nil {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].CreatedAt.After(jobs[k].CreatedAt) })
	return jobs
}

// Update applies fn to the live job under the store lock.
func (s *JobStore) Update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		fn(j)
	}
}

// AppendLog adds one log line, dropping the oldest past the cap.
func (s *JobStore) AppendLog(id, line string) {
	s.Update(id, func(j *Job) {
		j.Logs = append(j.Logs, line)
		if len(j.Logs) > maxJobLogs {
			j.Logs = j.Logs[len(j.Logs)-maxJobLogs:]
		}
	})
}
