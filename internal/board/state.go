package board

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/careerdeck/careerdeck/internal/api"
)

// JobsAPI is the slice of the REST client the board state consumes.
type JobsAPI interface {
	ListJobs(ctx context.Context) ([]api.Job, error)
	MyApplications(ctx context.Context) ([]api.Application, error)
	Apply(ctx context.Context, jobID int64, form api.ApplicationForm) error
}

// RefreshOutcome reports whether a manual refresh changed the snapshot.
type RefreshOutcome int

const (
	RefreshUnchanged RefreshOutcome = iota
	RefreshUpdated
)

// JobView is a job annotated with the viewer's applied marker.
type JobView struct {
	api.Job
	Applied bool
}

// State owns the in-memory job snapshot and the set of job ids the
// current viewer has applied to. The two are fetched independently and
// merged commutatively: the listing replaces the snapshot wholesale,
// while the applied set only ever grows by union, so an optimistic mark
// cannot be erased by a stale fetch.
type State struct {
	mu            sync.Mutex
	api           JobsAPI
	authenticated func() bool

	// gen invalidates in-flight fetches; a result that resolves after
	// Reset bumped the generation is discarded.
	gen     uint64
	loaded  bool
	jobs    []api.Job
	applied map[int64]struct{}
}

// NewState creates board state backed by the given client.
// authenticated reports whether a session exists; nil means anonymous.
func NewState(client JobsAPI, authenticated func() bool) *State {
	if authenticated == nil {
		authenticated = func() bool { return false }
	}

	return &State{
		api:           client,
		authenticated: authenticated,
		applied:       make(map[int64]struct{}),
	}
}

// LoadJobs fetches the job listing and replaces the snapshot wholesale.
// The first load degrades to an empty list on failure; once a snapshot
// exists, a failed load leaves it untouched.
func (s *State) LoadJobs(ctx context.Context) error {
	gen := s.generation()

	jobs, err := s.api.ListJobs(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		log.Debug().Msg("discarding job listing for a stale generation")
		return nil
	}

	if err != nil {
		if !s.loaded {
			s.jobs = nil
		}
		return err
	}

	s.jobs = jobs
	s.loaded = true

	return nil
}

// Refresh re-runs the listing and reports whether anything changed,
// comparing the new snapshot structurally against the previous one. On
// failure the previous snapshot is kept; stale beats empty.
func (s *State) Refresh(ctx context.Context) (RefreshOutcome, error) {
	gen := s.generation()

	jobs, err := s.api.ListJobs(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		log.Debug().Msg("discarding refresh for a stale generation")
		return RefreshUnchanged, nil
	}

	if err != nil {
		return RefreshUnchanged, err
	}

	outcome := RefreshUnchanged
	if !jobsEqual(s.jobs, jobs) {
		outcome = RefreshUpdated
	}

	s.jobs = jobs
	s.loaded = true

	return outcome, nil
}

// LoadApplications fetches the viewer's applications and unions their
// job ids into the applied set. Anonymous viewers skip the fetch, so
// every job renders as not applied. A failed fetch removes nothing.
func (s *State) LoadApplications(ctx context.Context) error {
	if !s.authenticated() {
		return nil
	}

	gen := s.generation()

	apps, err := s.api.MyApplications(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		log.Debug().Msg("discarding applications for a stale generation")
		return nil
	}

	if err != nil {
		return err
	}

	for _, app := range apps {
		s.applied[app.JobID] = struct{}{}
	}

	return nil
}

// MarkApplied records a successful application locally, ahead of any
// server confirmation arriving through LoadApplications.
func (s *State) MarkApplied(jobID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied[jobID] = struct{}{}
}

// Applied reports whether the viewer has applied to the given job.
func (s *State) Applied(jobID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.applied[jobID]
	return ok
}

// Jobs returns the snapshot annotated with the viewer's applied marks.
func (s *State) Jobs() []JobView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]JobView, 0, len(s.jobs))
	for _, job := range s.jobs {
		_, applied := s.applied[job.ID]
		views = append(views, JobView{Job: job, Applied: applied})
	}

	return views
}

// Reset clears the snapshot and the applied set and bumps the
// generation so in-flight fetches become no-ops. Called on logout.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.loaded = false
	s.jobs = nil
	s.applied = make(map[int64]struct{})
}

func (s *State) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gen
}

func jobsEqual(a, b []api.Job) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
