package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecruiterPostCmd_LoadConfigFile(t *testing.T) {
	t.Run("yaml config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "job.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"title: Backend Engineer\ndescription: Build Go services\nlocation: Berlin\n"), 0600))

		cmd := &RecruiterPostCmd{Config: path}
		require.NoError(t, cmd.loadConfigFile())

		assert.Equal(t, "Backend Engineer", cmd.Title)
		assert.Equal(t, "Build Go services", cmd.Description)
		assert.Equal(t, "Berlin", cmd.Location)
	})

	t.Run("json config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "job.json")
		require.NoError(t, os.WriteFile(path, []byte(
			`{"title": "Data Analyst", "description": "Dashboards"}`), 0600))

		cmd := &RecruiterPostCmd{Config: path}
		require.NoError(t, cmd.loadConfigFile())

		assert.Equal(t, "Data Analyst", cmd.Title)
		assert.Equal(t, "Dashboards", cmd.Description)
		assert.Empty(t, cmd.Location)
	})

	t.Run("config file takes precedence over flags", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "job.yaml")
		require.NoError(t, os.WriteFile(path, []byte("title: From Config\n"), 0600))

		cmd := &RecruiterPostCmd{Config: path, Title: "From Flag", Description: "Kept"}
		require.NoError(t, cmd.loadConfigFile())

		assert.Equal(t, "From Config", cmd.Title)
		assert.Equal(t, "Kept", cmd.Description)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "job.yaml")
		require.NoError(t, os.WriteFile(path, []byte("title: [unclosed"), 0600))

		cmd := &RecruiterPostCmd{Config: path}
		require.Error(t, cmd.loadConfigFile())
	})
}
