package campusportal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal-client/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env: config.EnvDevelopment,
		Client: config.ClientConfig{
			BaseURL: "http://localhost:9999/api",
			Timeout: 5 * time.Second,
		},
		Session: config.SessionConfig{Dir: filepath.Join(dir, "session")},
		Export:  config.ExportConfig{Dir: filepath.Join(dir, "exports")},
		Log:     config.LogConfig{Level: "error", Format: "console"},
	}
}

func TestNewWithConfigAssemblesServices(t *testing.T) {
	portal, err := NewWithConfig(testConfig(t))
	require.NoError(t, err)

	require.NotNil(t, portal.Auth())
	assert.False(t, portal.Auth().SignedIn())

	schedule := portal.NewScheduleView()
	require.NotNil(t, schedule)
	schedule.Close()

	gradebook := portal.NewGradebookView("course-1")
	require.NotNil(t, gradebook)
	gradebook.Close()

	require.NotNil(t, portal.NewDirectoryView())
	require.NotNil(t, portal.Rooms())
	require.NotNil(t, portal.Courses())

	exports, err := portal.NewExportService()
	require.NoError(t, err)
	require.NotNil(t, exports)

	families, err := portal.Metrics().Registry().Gather()
	require.NoError(t, err)
	assert.NotNil(t, families)
}

func TestNewWithConfigCreatesSessionDir(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewWithConfig(cfg)
	require.NoError(t, err)

	assert.DirExists(t, cfg.Session.Dir)
}
