package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/careerdeck/careerdeck/internal/api"
	"github.com/careerdeck/careerdeck/internal/session"
)

// RecruiterCmd groups the recruiter workflow.
type RecruiterCmd struct {
	Jobs       RecruiterJobsCmd       `cmd:"" help:"List your postings"`
	Post       RecruiterPostCmd       `cmd:"" help:"Post a new job"`
	Applicants RecruiterApplicantsCmd `cmd:"" help:"View applicants for one of your jobs"`
}

// requireRecruiter gates the recruiter commands on the derived role.
// This is a UI convenience only; the server enforces the real check.
func requireRecruiter(store *session.Store) error {
	if !store.Active() {
		return fmt.Errorf("not logged in; run 'careerdeck login' first")
	}
	if store.Role() != session.RoleRecruiter {
		return fmt.Errorf("only recruiters can use this command")
	}
	return nil
}

// RecruiterJobsCmd lists the current recruiter's postings.
type RecruiterJobsCmd struct {
	Server     string `help:"Server URL" default:"http://localhost:5000" env:"CAREERDECK_SERVER"`
	SessionDir string `help:"Custom session directory"`
}

func (r *RecruiterJobsCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(r.SessionDir)
	if err != nil {
		return err
	}
	if err := requireRecruiter(store); err != nil {
		return err
	}

	client := newClient(r.Server, "", store)

	jobs, err := client.RecruiterJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load your postings: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("You haven't posted any jobs yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tPOSTED")

	for _, job := range jobs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			job.ID, job.Title, job.DisplayLocation(), job.DatePosted.Format("2006-01-02"))
	}

	w.Flush()

	return nil
}

// RecruiterPostCmd posts a new job from flags or a config file.
type RecruiterPostCmd struct {
	Server     string `help:"Server URL" default:"http://localhost:5000" env:"CAREERDECK_SERVER"`
	SessionDir string `help:"Custom session directory"`

	Title       string `help:"Job title"`
	Description string `help:"Job description"`
	Location    string `help:"Job location (optional)"`
	Config      string `help:"YAML/JSON job config file path" type:"existingfile"`
	List        bool   `help:"List your postings after posting" default:"true"`
}

func (r *RecruiterPostCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(r.SessionDir)
	if err != nil {
		return err
	}
	if err := requireRecruiter(store); err != nil {
		return err
	}

	if r.Config != "" {
		if err := r.loadConfigFile(); err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if r.Title == "" || r.Description == "" {
		return fmt.Errorf("title and description are required (use flags or a --config file)")
	}

	client := newClient(r.Server, "", store)

	err = client.PostJob(ctx, api.NewJob{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
	})
	if err != nil {
		return fmt.Errorf("failed to post job: %w", err)
	}

	fmt.Println("Job posted successfully!")

	if r.List {
		list := RecruiterJobsCmd{Server: r.Server, SessionDir: r.SessionDir}
		if err := list.Run(ctx, globals); err != nil {
			fmt.Printf("Failed to list your postings: %v\n", err)
		}
	}

	return nil
}

func (r *RecruiterPostCmd) loadConfigFile() error {
	data, err := os.ReadFile(r.Config)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var job api.NewJob

	// Determine file format by extension
	if strings.HasSuffix(strings.ToLower(r.Config), ".json") {
		if err := json.Unmarshal(data, &job); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &job); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	// Config file takes precedence over flags
	if job.Title != "" {
		r.Title = job.Title
	}
	if job.Description != "" {
		r.Description = job.Description
	}
	if job.Location != "" {
		r.Location = job.Location
	}

	return nil
}

// RecruiterApplicantsCmd lists applicants for one of the recruiter's
// jobs.
type RecruiterApplicantsCmd struct {
	Server     string `help:"Server URL" default:"http://localhost:5000" env:"CAREERDECK_SERVER"`
	SessionDir string `help:"Custom session directory"`

	JobID int64 `arg:"" help:"Job id"`
}

func (r *RecruiterApplicantsCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(r.SessionDir)
	if err != nil {
		return err
	}
	if err := requireRecruiter(store); err != nil {
		return err
	}

	client := newClient(r.Server, "", store)

	applicants, err := client.Applicants(ctx, r.JobID)
	if err != nil {
		return fmt.Errorf("failed to fetch applicants: %w", err)
	}

	if len(applicants) == 0 {
		fmt.Println("No applicants found for this job.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDOB\tEMAIL")

	for _, applicant := range applicants {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", applicant.ID, applicant.Name, applicant.DOB, applicant.Email)
	}

	w.Flush()

	fmt.Printf("\nTotal applicants: %d\n", len(applicants))

	return nil
}
