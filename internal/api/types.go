package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Job is a posting as returned by the server. The "applied" marker is
// not part of this type; it is a per-viewer annotation computed by the
// board state.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	DatePosted  Timestamp `json:"date_posted"`
}

// DisplayLocation renders a missing location as "Not specified".
func (j Job) DisplayLocation() string {
	if j.Location == "" {
		return "Not specified"
	}
	return j.Location
}

// Application is the seeker-visible projection of a submitted
// application.
type Application struct {
	JobID       int64     `json:"job_id"`
	JobTitle    string    `json:"job_title"`
	DateApplied Timestamp `json:"date_applied"`
}

// Applicant is a recruiter-visible entry for one application to a job.
type Applicant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	DOB   string `json:"dob"`
	Email string `json:"email"`
}

// LoginResult is the successful login response.
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// RegisterParams is the payload for account registration.
type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// NewJob is the payload for posting a job as a recruiter.
type NewJob struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Location    string `json:"location,omitempty" yaml:"location"`
}

// ApplicationForm carries the fields of the multipart apply request.
type ApplicationForm struct {
	CoverLetter string
	Email       string
	Phone       string
	ResumeName  string
	Resume      []byte
}

// Timestamp parses the server's timestamps, which arrive either as
// RFC3339 or as Python isoformat without a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format(time.RFC3339))
}
