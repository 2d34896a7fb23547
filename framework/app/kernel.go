package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/kofrasa/service-locator/framework/config"
	gohttp "github.com/kofrasa/service-locator/framework/http"
	"github.com/kofrasa/service-locator/framework/locator"
	"github.com/kofrasa/service-locator/framework/logging"
	"github.com/kofrasa/service-locator/framework/providers"
	"github.com/kofrasa/service-locator/framework/routing"
)

const shutdownTimeout = 5 * time.Second

// Application wires configuration, logging, the service locator and the
// inspector HTTP surface together.
type Application struct {
	Config    *config.Config
	Logger    *zap.Logger
	Locator   *locator.Locator
	Providers *locator.ProviderRegistry
	Router    *routing.Router
}

// New loads configuration from envFiles (".env" by default) and builds an
// unbooted application.
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout).
		With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	l := locator.New(locator.NewCatalog(), locator.WithLogger(logger.Named("locator")))
	a := &Application{
		Config:    cfg,
		Logger:    logger,
		Locator:   l,
		Providers: locator.NewProviderRegistry(l),
		Router:    routing.New(logger.Named("http")),
	}

	a.Register(&providers.ConfigServiceProvider{Config: cfg})

	a.Router.Middleware(gohttp.Recoverer(logger.Named("http")))
	a.Router.NotFound(gohttp.NotFoundHandler)
	gohttp.NewInspector(l).Routes(a.Router)
	return a
}

// Register adds a ServiceProvider. Its types land in the catalog right away.
func (a *Application) Register(provider locator.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot loads the services file from fs when one is configured, initializes
// the locator with the configured prefix and boots every provider. Entries
// naming unknown types are logged by the locator and do not fail Boot.
func (a *Application) Boot(fs afero.Fs) error {
	if a.Providers.Booted() {
		return nil
	}

	var props *config.Properties
	if file := a.Config.Services.File; file != "" {
		p, err := config.LoadProperties(fs, file)
		if err != nil {
			return fmt.Errorf("app: load services: %w", err)
		}
		props = p
	}

	if err := a.Locator.Init(props, a.Config.Services.Prefix); err != nil {
		a.Logger.Warn("some services were skipped", zap.Error(err))
	}
	a.Providers.Boot()
	return nil
}

// Handler returns the HTTP handler serving the application routes.
func (a *Application) Handler() http.Handler { return a.Router }

// Run boots the application from the OS filesystem if needed and serves HTTP
// until ctx is done, then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(afero.NewOsFs()); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.App.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return <-errCh
}
