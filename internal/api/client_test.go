package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var source TokenSource
	if token != "" {
		source = func() string { return token }
	}

	return NewClient(Config{ServerURL: srv.URL}, source)
}

func TestClient_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/auth/login", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@b.com", body["email"])
			assert.Equal(t, "x", body["password"])

			json.NewEncoder(w).Encode(map[string]string{"token": "tok-123", "role": "Recruiter"})
		}), "")

		result, err := client.Login(context.Background(), "a@b.com", "x")
		require.NoError(t, err)
		assert.Equal(t, "tok-123", result.Token)
		assert.Equal(t, "Recruiter", result.Role)
	})

	t.Run("rejected credentials carry the server message", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Invalid email or password"})
		}), "")

		_, err := client.Login(context.Background(), "a@b.com", "wrong")
		require.Error(t, err)

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Invalid email or password", apiErr.Message)
	})
}

func TestClient_ListJobs(t *testing.T) {
	t.Run("decodes jobs with python timestamps", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/jobs", r.URL.Path)
			w.Write([]byte(`[
				{"id": 1, "title": "Backend Engineer", "description": "Go", "location": "Berlin", "date_posted": "2026-03-14T09:00:00"},
				{"id": 2, "title": "Data Analyst", "description": "SQL", "location": null, "date_posted": "2026-03-15T10:30:00.123456"}
			]`))
		}), "")

		jobs, err := client.ListJobs(context.Background())
		require.NoError(t, err)
		require.Len(t, jobs, 2)

		assert.Equal(t, "Backend Engineer", jobs[0].Title)
		assert.Equal(t, "Berlin", jobs[0].DisplayLocation())
		assert.Equal(t, "Not specified", jobs[1].DisplayLocation())
		assert.Equal(t, 2026, jobs[0].DatePosted.Year())
	})

	t.Run("client errors are permanent, not retried", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Only recruiters can access this route"})
		}), "tok")

		_, err := client.RecruiterJobs(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, calls)

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.Status)
	})
}

func TestClient_BearerHeader(t *testing.T) {
	t.Run("token source sets the authorization header", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
			w.Write([]byte(`[]`))
		}), "tok-abc")

		_, err := client.MyApplications(context.Background())
		require.NoError(t, err)
	})

	t.Run("anonymous client sends no header", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`[]`))
		}), "")

		_, err := client.ListJobs(context.Background())
		require.NoError(t, err)
	})
}

func TestClient_Apply(t *testing.T) {
	t.Run("submits a multipart form", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/jobs/7/apply", r.URL.Path)
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "letter", r.FormValue("cover_letter"))
			assert.Equal(t, "a@b.com", r.FormValue("email"))
			assert.Equal(t, "555", r.FormValue("phone"))

			file, header, err := r.FormFile("resume")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "resume.pdf", header.Filename)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Application submitted"})
		}), "tok")

		err := client.Apply(context.Background(), 7, ApplicationForm{
			CoverLetter: "letter",
			Email:       "a@b.com",
			Phone:       "555",
			ResumeName:  "resume.pdf",
			Resume:      []byte("%PDF-1.4"),
		})
		require.NoError(t, err)
	})

	t.Run("server rejection surfaces the message", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Resume file is required"})
		}), "tok")

		err := client.Apply(context.Background(), 7, ApplicationForm{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Resume file is required")
	})
}

func TestClient_PostJobAndApplicants(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/recruiter/jobs":
			require.Equal(t, http.MethodPost, r.Method)

			var job NewJob
			require.NoError(t, json.NewDecoder(r.Body).Decode(&job))
			assert.Equal(t, "Backend Engineer", job.Title)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Job posted successfully"})
		case "/api/recruiter/jobs/3/applicants":
			w.Write([]byte(`[{"id": 9, "name": "Ada", "dob": "Not available", "email": "ada@example.com"}]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}), "tok")

	err := client.PostJob(context.Background(), NewJob{Title: "Backend Engineer", Description: "Go"})
	require.NoError(t, err)

	applicants, err := client.Applicants(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, "Ada", applicants[0].Name)
	assert.Equal(t, "Not available", applicants[0].DOB)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "server returned 500", (&Error{Status: 500}).Error())
	assert.Equal(t, "server returned 401: nope", (&Error{Status: 401, Message: "nope"}).Error())
}
