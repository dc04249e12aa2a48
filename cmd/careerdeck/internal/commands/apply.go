package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/careerdeck/careerdeck/internal/board"
)

// ApplyCmd submits an application for a job.
type ApplyCmd struct {
	Server     string `help:"Server URL" default:"http://localhost:5000" env:"CAREERDECK_SERVER"`
	SessionDir string `help:"Custom session directory"`

	JobID           int64  `arg:"" help:"Job id to apply to"`
	Email           string `help:"Contact email" required:""`
	Phone           string `help:"Contact phone" required:""`
	CoverLetter     string `help:"Cover letter text"`
	CoverLetterFile string `help:"Read the cover letter from a file" type:"existingfile"`
	Resume          string `help:"Path to the resume PDF" required:"" type:"existingfile"`
}

func (a *ApplyCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(a.SessionDir)
	if err != nil {
		return err
	}

	if !store.Active() {
		return fmt.Errorf("not logged in; run 'careerdeck login' first")
	}

	client := newClient(a.Server, "", store)
	state := board.NewState(client, store.Active)

	if err := state.LoadJobs(ctx); err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}
	if err := state.LoadApplications(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load your applications; duplicate checks may be incomplete")
	}

	var selected *board.JobView
	for _, job := range state.Jobs() {
		if job.ID == a.JobID {
			selected = &job
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("job %d not found", a.JobID)
	}

	flow := board.NewApplyFlow(state)

	if err := flow.Select(selected.Job); err != nil {
		if errors.Is(err, board.ErrAlreadyApplied) {
			return fmt.Errorf("you have already applied for this job")
		}
		return err
	}

	coverLetter := a.CoverLetter
	if a.CoverLetterFile != "" {
		data, err := os.ReadFile(a.CoverLetterFile)
		if err != nil {
			return fmt.Errorf("failed to read cover letter: %w", err)
		}
		coverLetter = string(data)
	}

	if err := flow.SetCoverLetter(coverLetter); err != nil {
		return err
	}
	if err := flow.SetEmail(a.Email); err != nil {
		return err
	}
	if err := flow.SetPhone(a.Phone); err != nil {
		return err
	}

	resume, err := os.ReadFile(a.Resume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	if err := flow.AttachResume(filepath.Base(a.Resume), resume); err != nil {
		return err
	}

	fmt.Printf("Applying for - %s position\n", selected.Title)

	if err := flow.Submit(ctx); err != nil {
		return fmt.Errorf("failed to submit application: %w", err)
	}

	fmt.Println("Application submitted successfully!")

	return nil
}

// ApplicationsCmd lists the applications submitted by the current user.
type ApplicationsCmd struct {
	Server     string `help:"Server URL" default:"http://localhost:5000" env:"CAREERDECK_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (a *ApplicationsCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(a.SessionDir)
	if err != nil {
		return err
	}

	if !store.Active() {
		return fmt.Errorf("not logged in; run 'careerdeck login' first")
	}

	client := newClient(a.Server, "", store)

	apps, err := client.MyApplications(ctx)
	if err != nil {
		return fmt.Errorf("failed to load applications: %w", err)
	}

	if len(apps) == 0 {
		fmt.Println("No applications yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tTITLE\tAPPLIED ON")

	for _, app := range apps {
		fmt.Fprintf(w, "%d\t%s\t%s\n", app.JobID, app.JobTitle, app.DateApplied.Format("2006-01-02"))
	}

	w.Flush()

	return nil
}
