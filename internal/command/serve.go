package command

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dom/movie-catalog/internal/api"
	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/dom/movie-catalog/internal/telemetry"
	"github.com/dom/movie-catalog/internal/websocket"
)

// Server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 30 * time.Second

	sessionSweepInterval = 10 * time.Minute
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the movie catalog web app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			shutdownTelemetry, err := telemetry.Init(cmd.Context(), cfg.OTLPEndpoint)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, shutdownTelemetry(context.WithoutCancel(cmd.Context())))
			}()

			if cfg.IsProduction() && cfg.SessionSecret == config.DefaultSessionSecret {
				logger.WarnContext(cmd.Context(), "SESSION_SECRET is the development default; set it in production")
			}

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, store.Close())
			}()

			hub := websocket.NewHub(logger)
			go hub.Run()
			defer hub.Stop()

			services := service.NewServices(store.repos, cfg, hub)
			router, err := api.NewRouter(services, hub, cfg, logger)
			if err != nil {
				return err
			}

			grp, ctx := errgroup.WithContext(cmd.Context())

			if cfg.SessionBackend == config.SessionBackendPostgres {
				grp.Go(func() error {
					sweepSessions(ctx, services.Session, logger)
					return nil
				})
			}

			srv := &http.Server{
				Addr:              net.JoinHostPort("0.0.0.0", cfg.Port),
				Handler:           router,
				ReadHeaderTimeout: readHeaderTimeout,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
			}

			logger.InfoContext(ctx, "starting server...",
				slog.String("address", srv.Addr),
				slog.String("environment", cfg.Environment),
			)
			serve(ctx, grp, srv)
			return grp.Wait()
		},
	}
}

// serve runs srv in grp and shuts it down gracefully once ctx is done.
func serve(ctx context.Context, grp *errgroup.Group, srv *http.Server) {
	grp.Go(func() error {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func sweepSessions(ctx context.Context, sessions *service.SessionService, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.SweepExpired(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "failed to sweep expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.InfoContext(ctx, "swept expired sessions", slog.Int64("count", n))
			}
		}
	}
}
