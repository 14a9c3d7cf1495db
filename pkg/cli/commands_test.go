package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrapi-go/pkg/config"
	"scrapi-go/pkg/mockapi"
	"scrapi-go/pkg/mockapi/store"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/session"
)

type testEnv struct {
	app        *App
	store      *store.Store
	user       *models.User
	configPath string
	exportDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("SCRAPI_BASE_URL", "")
	t.Setenv("SCRAPI_TOKEN", "")
	gin.SetMode(gin.TestMode)
	st := store.New()
	u := store.Seed(st)
	srv := httptest.NewServer(mockapi.NewRouter(st, nil, nil))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.API.Token = store.DemoToken
	cfg.Export.Dir = filepath.Join(dir, "exports")
	cfg.Log.Dir = filepath.Join(dir, "logs")
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, config.SaveTo(cfg, path))

	return &testEnv{
		app:        NewApp(session.New(cfg, path)),
		store:      st,
		user:       u,
		configPath: path,
		exportDir:  cfg.Export.Dir,
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(e.app, "test")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunsCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "runs", "--limit", "10", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2 of 2 (12 runs)")

	_, err = env.run(t, "runs", "--limit", "15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid limit")
}

func TestDatasetAndExportCommands(t *testing.T) {
	env := newTestEnv(t)
	run, ok := env.store.LatestSucceededRun(env.user.ID)
	require.True(t, ok)

	out, err := env.run(t, "dataset", run.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee House 1")

	out, err = env.run(t, "export", run.ID, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "dataset_"+run.ID+".csv")
	_, err = os.Stat(filepath.Join(env.exportDir, "dataset_"+run.ID+".csv"))
	assert.NoError(t, err)

	_, err = env.run(t, "export", run.ID, "--format", "xml")
	assert.Error(t, err)
}

func TestMarketplaceAndFork(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "marketplace", "--featured")
	require.NoError(t, err)
	assert.Contains(t, out, "Google Maps Scraper V2")
	assert.NotContains(t, out, "Amazon Product Scraper")

	featured := env.store.Marketplace(models.MarketplaceQuery{Featured: true})
	out, err = env.run(t, "fork", featured[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Actor forked successfully!")
	assert.Contains(t, out, "(Forked)")

	out, err = env.run(t, "actors")
	require.NoError(t, err)
	assert.Contains(t, out, "(Forked)")
}

func TestChatCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "chat", "show", "my", "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "Navigating to runs...")
	assert.Contains(t, out, "→ /runs")

	out, err = env.run(t, "chat", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "User:\nshow my runs")

	out, err = env.run(t, "chat", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Chat history cleared")

	out, err = env.run(t, "chat", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No chat history.")
}

func TestChatExportAction(t *testing.T) {
	env := newTestEnv(t)
	run, _ := env.store.LatestSucceededRun(env.user.ID)

	out, err := env.run(t, "chat", "export", "my", "data", "as", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Export downloaded successfully!")
	_, err = os.Stat(filepath.Join(env.exportDir, "export_"+run.ID+".csv"))
	assert.NoError(t, err)
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "config", "set", "ui.page_size=50")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration updated successfully")

	reloaded, err := config.LoadFrom(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.UI.PageSize)

	out, err = env.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "page_size = 50")

	tests := []struct {
		name      string
		arg       string
		errSubstr string
	}{
		{name: "missing equals", arg: "ui.page_size", errSubstr: "invalid format"},
		{name: "no section", arg: "page_size=10", errSubstr: "invalid key format"},
		{name: "unknown section", arg: "database.url=x", errSubstr: "unknown section"},
		{name: "bad limit", arg: "ui.page_size=7", errSubstr: "invalid limit"},
		{name: "bad url", arg: "api.base_url=localhost", errSubstr: "scheme"},
		{name: "bad theme", arg: "ui.theme=neon", errSubstr: "invalid theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, "config", "set", tt.arg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfigSetTokenSurvivesSessionEnd(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "config", "set", "api.token=fresh")
	require.NoError(t, err)

	reloaded, err := config.LoadFrom(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, "fresh", reloaded.API.Token)
}

func TestMissingToken(t *testing.T) {
	env := newTestEnv(t)
	env.app.sess.SetToken("")

	_, err := env.run(t, "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API token not configured")
}
