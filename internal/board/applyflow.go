package board

import (
	"context"
	"errors"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"github.com/careerdeck/careerdeck/internal/api"
)

// Sentinel errors
var (
	// ErrAlreadyApplied is returned when selecting a job the viewer has
	// already applied to.
	ErrAlreadyApplied = errors.New("already applied to this job")

	// ErrNoJobSelected is returned when acting on the flow outside the
	// composing phase.
	ErrNoJobSelected = errors.New("no job selected")

	// ErrSubmitInProgress is returned while a submission is outstanding.
	ErrSubmitInProgress = errors.New("submission already in progress")

	// ErrIncompleteDraft is returned when a required field is empty.
	ErrIncompleteDraft = errors.New("cover letter, email and phone are required")

	// ErrResumeRequired is returned when no resume is attached.
	ErrResumeRequired = errors.New("resume is required")

	// ErrResumeNotPDF is returned when the attached file is not a PDF.
	ErrResumeNotPDF = errors.New("only PDF files are allowed")
)

// Phase is the stage of the apply workflow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseComposing
	PhaseSubmitting
)

// Draft holds the in-progress application for the selected job.
type Draft struct {
	CoverLetter string
	Email       string
	Phone       string

	resumeName string
	resume     []byte
}

// Resume returns the attached resume, if any.
func (d Draft) Resume() (string, []byte) {
	return d.resumeName, d.resume
}

// ApplyFlow drives the staged apply workflow for one job at a time:
// Idle -> Select -> Composing -> Submit -> Submitting -> Idle on
// success, back to Composing with the draft intact on failure.
// Selecting a new job discards any in-progress draft; there is no
// draft autosave.
type ApplyFlow struct {
	mu    sync.Mutex
	state *State
	phase Phase
	job   api.Job
	draft Draft
}

// NewApplyFlow creates a flow bound to the given board state.
func NewApplyFlow(state *State) *ApplyFlow {
	return &ApplyFlow{state: state}
}

// Phase returns the current workflow phase.
func (f *ApplyFlow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.phase
}

// Job returns the currently selected job.
func (f *ApplyFlow) Job() api.Job {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.job
}

// Draft returns a copy of the current draft.
func (f *ApplyFlow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.draft
}

// Select starts composing an application for the given job. Any draft
// for a previously selected job is discarded. Jobs already marked
// applied are refused.
func (f *ApplyFlow) Select(job api.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase == PhaseSubmitting {
		return ErrSubmitInProgress
	}

	if f.state.Applied(job.ID) {
		return ErrAlreadyApplied
	}

	f.job = job
	f.draft = Draft{}
	f.phase = PhaseComposing

	return nil
}

// SetCoverLetter updates the draft's cover letter.
func (f *ApplyFlow) SetCoverLetter(text string) error {
	return f.edit(func(d *Draft) { d.CoverLetter = text })
}

// SetEmail updates the draft's contact email.
func (f *ApplyFlow) SetEmail(email string) error {
	return f.edit(func(d *Draft) { d.Email = email })
}

// SetPhone updates the draft's contact phone.
func (f *ApplyFlow) SetPhone(phone string) error {
	return f.edit(func(d *Draft) { d.Phone = phone })
}

// AttachResume attaches a resume after sniffing its content type. Only
// application/pdf is accepted; anything else is rejected immediately
// and the resume stays unset.
func (f *ApplyFlow) AttachResume(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != PhaseComposing {
		return ErrNoJobSelected
	}

	if !mimetype.Detect(data).Is("application/pdf") {
		f.draft.resumeName = ""
		f.draft.resume = nil
		return ErrResumeNotPDF
	}

	f.draft.resumeName = name
	f.draft.resume = data

	return nil
}

// Cancel abandons the draft and returns to idle. No side effects; a
// cancel during submission is ignored.
func (f *ApplyFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase == PhaseSubmitting {
		return
	}

	f.reset()
}

// Submit validates the draft and posts the application. Validation
// failures block the network call entirely. On success the job is
// marked applied locally and the flow returns to idle; on failure the
// typed fields survive so resubmission needs no re-entry.
func (f *ApplyFlow) Submit(ctx context.Context) error {
	f.mu.Lock()

	switch f.phase {
	case PhaseSubmitting:
		f.mu.Unlock()
		return ErrSubmitInProgress
	case PhaseIdle:
		f.mu.Unlock()
		return ErrNoJobSelected
	}

	if err := f.draft.validate(); err != nil {
		f.mu.Unlock()
		return err
	}

	f.phase = PhaseSubmitting
	job := f.job
	form := api.ApplicationForm{
		CoverLetter: f.draft.CoverLetter,
		Email:       f.draft.Email,
		Phone:       f.draft.Phone,
		ResumeName:  f.draft.resumeName,
		Resume:      f.draft.resume,
	}
	f.mu.Unlock()

	err := f.state.api.Apply(ctx, job.ID, form)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		log.Debug().Err(err).Int64("jobID", job.ID).Msg("application submit failed")
		f.phase = PhaseComposing
		return err
	}

	f.state.MarkApplied(job.ID)
	f.reset()

	return nil
}

func (f *ApplyFlow) edit(apply func(*Draft)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != PhaseComposing {
		return ErrNoJobSelected
	}

	apply(&f.draft)

	return nil
}

// reset requires f.mu held.
func (f *ApplyFlow) reset() {
	f.phase = PhaseIdle
	f.job = api.Job{}
	f.draft = Draft{}
}

func (d Draft) validate() error {
	if d.CoverLetter == "" || d.Email == "" || d.Phone == "" {
		return ErrIncompleteDraft
	}

	if len(d.resume) == 0 {
		return ErrResumeRequired
	}

	return nil
}
