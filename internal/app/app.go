package app

import (
	"context"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xenking/catalog-viewer/internal/catalog"
	"github.com/xenking/catalog-viewer/internal/tui"
	"github.com/xenking/catalog-viewer/pkg/httpmiddleware"
)

// NewTransport builds the instrumented round tripper every catalog request
// goes through.
func NewTransport(cfg CatalogConfig) http.RoundTripper {
	return httpmiddleware.Wrap(otelhttp.NewTransport(http.DefaultTransport),
		httpmiddleware.Recovery(),
		httpmiddleware.RequestID(),
		httpmiddleware.LogRequests(),
		httpmiddleware.Annotate(httpmiddleware.DefaultAnnotateConfig()),
		httpmiddleware.RateLimit(httpmiddleware.RateLimitConfig{
			Limit: rate.Limit(cfg.RateLimit),
			Burst: cfg.Burst,
		}),
	)
}

// NewClient creates the catalog client from cfg.
func NewClient(cfg CatalogConfig) (*catalog.Client, error) {
	client, err := catalog.New(catalog.Options{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Transport: NewTransport(cfg)},
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create catalog client")
	}
	return client, nil
}

// Run creates all dependencies and runs the terminal UI until the user quits
// or ctx is cancelled. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	ctx = zctx.Base(ctx, lg)
	lg.Info("Initializing",
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.Duration("debounce", cfg.Search.Debounce),
	)

	client, err := NewClient(cfg.Catalog)
	if err != nil {
		return err
	}

	model := tui.New(ctx, tui.Options{
		Repo:     client,
		Debounce: cfg.Search.Debounce,
	})
	defer model.Close()

	opts := []tea.ProgramOption{tea.WithoutSignalHandler()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, opts...)

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil {
			return errors.Wrap(err, "run program")
		}
		lg.Info("Program exited")
		return nil
	})
	// Shutdown: quit the program when the parent context is cancelled.
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			lg.Info("Shutting down", zap.Error(context.Cause(ctx)))
		}
		program.Quit()
		return nil
	})
	return g.Wait()
}
