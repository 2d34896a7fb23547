package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofrasa/service-locator/framework/app"
	"github.com/kofrasa/service-locator/framework/config"
	"github.com/kofrasa/service-locator/framework/locator"
	"github.com/kofrasa/service-locator/framework/providers"
	"github.com/kofrasa/service-locator/services/random"
)

const servicesYAML = `
service:
  random: random.Random
  randomFactory: random.Factory
  broken: missing.Type
other:
  ignored: random.Random
`

func newApp(t *testing.T, file string) *app.Application {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SERVICES_FILE", file)
	t.Setenv("SERVICES_PREFIX", "service")

	a := app.New(filepath.Join(t.TempDir(), ".env"))
	a.Register(&providers.RandomServiceProvider{})
	return a
}

func memFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/services.yaml", []byte(servicesYAML), 0o644))
	return fs
}

func TestBoot_InitializesFromServicesFile(t *testing.T) {
	a := newApp(t, "/etc/services.yaml")
	require.NoError(t, a.Boot(memFs(t)))

	assert.True(t, a.Locator.Initialized())
	assert.True(t, a.Providers.Booted())
	assert.Equal(t, []string{"random", "randomFactory"}, a.Locator.Keys())

	r1, err := locator.Resolve[*random.Random](a.Locator, "random")
	require.NoError(t, err)
	r2, err := locator.Resolve[*random.Random](a.Locator, "random")
	require.NoError(t, err)
	assert.Same(t, r1, r2)

	cfg, ok := locator.ValueOf[*config.Config](a.Locator, "config")
	require.True(t, ok)
	assert.Same(t, a.Config, cfg)
}

func TestBoot_Idempotent(t *testing.T) {
	a := newApp(t, "/etc/services.yaml")
	fs := memFs(t)
	require.NoError(t, a.Boot(fs))
	require.NoError(t, a.Boot(fs))
	assert.Len(t, a.Locator.Keys(), 2)
}

func TestBoot_WithoutServicesFile(t *testing.T) {
	a := newApp(t, "")
	require.NoError(t, a.Boot(afero.NewMemMapFs()))

	assert.True(t, a.Locator.Initialized())
	assert.Empty(t, a.Locator.Keys())
}

func TestBoot_MissingServicesFile(t *testing.T) {
	a := newApp(t, "/nope.yaml")
	err := a.Boot(afero.NewMemMapFs())
	require.Error(t, err)
	assert.False(t, a.Locator.Initialized())
}

func TestHandler_ServesInspector(t *testing.T) {
	a := newApp(t, "/etc/services.yaml")
	require.NoError(t, a.Boot(memFs(t)))

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Initialized bool `json:"initialized"`
			Services    int  `json:"services"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Data.Initialized)
	assert.Equal(t, 2, body.Data.Services)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	a := newApp(t, "")
	a.Config.App.Port = "0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestHandler_UnknownRouteIsJSON404(t *testing.T) {
	a := newApp(t, "")
	require.NoError(t, a.Boot(afero.NewMemMapFs()))

	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"route [/nowhere] not found"}`, rr.Body.String())
}
