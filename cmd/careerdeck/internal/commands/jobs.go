package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/careerdeck/careerdeck/internal/board"
)

// JobsCmd lists the job board, with applied markers when logged in.
type JobsCmd struct {
	Server     string        `help:"Server URL" default:"http://localhost:5000" env:"CAREERDECK_SERVER"`
	SessionDir string        `help:"Custom session directory"`
	CacheDir   string        `help:"HTTP cache directory"`
	Watch      bool          `help:"Watch for changes" default:"false"`
	Interval   time.Duration `help:"Watch refresh interval" default:"5s"`
}

func (j *JobsCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := openSession(j.SessionDir)
	if err != nil {
		return err
	}

	client := newClient(j.Server, j.CacheDir, store)
	state := board.NewState(client, store.Active)

	// Jobs and applications fetch independently; each owns its own
	// slice of state so the merge order does not matter.
	if err := state.LoadJobs(ctx); err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}
	if err := state.LoadApplications(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load your applications; applied markers may be incomplete")
	}

	printJobs(state.Jobs(), store.Active())

	if j.Watch {
		return j.watchJobs(ctx, state, store.Active())
	}

	return nil
}

func (j *JobsCmd) watchJobs(ctx context.Context, state *board.State, authenticated bool) error {
	fmt.Println("\nWatching jobs (press Ctrl+C to stop)...")

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			outcome, err := state.Refresh(ctx)
			if err != nil {
				// Keep showing the previous listing; stale beats empty.
				fmt.Printf("Failed to refresh jobs. Please try again. (%v)\n", err)
				continue
			}
			if err := state.LoadApplications(ctx); err != nil {
				log.Warn().Err(err).Msg("could not refresh your applications")
			}

			if outcome == board.RefreshUnchanged {
				fmt.Println("No update from the recruiters.")
				continue
			}

			fmt.Print("\033[2J\033[H") // Clear screen and move cursor to top
			fmt.Printf("Jobs (updated at %s)\n\n", time.Now().Format("15:04:05"))
			fmt.Println("Jobs updated successfully!")
			printJobs(state.Jobs(), authenticated)
		}
	}
}

func printJobs(jobs []board.JobView, authenticated bool) {
	if len(jobs) == 0 {
		fmt.Println("No Jobs Available")
		fmt.Println("There are currently no job listings. Please check back later.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if authenticated {
		fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tPOSTED\tAPPLIED")
	} else {
		fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tPOSTED")
	}

	for _, job := range jobs {
		title := job.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		posted := job.DatePosted.Format("2006-01-02")

		if authenticated {
			applied := ""
			if job.Applied {
				applied = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", job.ID, title, job.DisplayLocation(), posted, applied)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", job.ID, title, job.DisplayLocation(), posted)
		}
	}

	w.Flush()

	fmt.Printf("\nTotal jobs: %d\n", len(jobs))
}
