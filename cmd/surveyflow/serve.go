package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	_ "surveyflow/docs"
	"surveyflow/internal/app"
	"surveyflow/internal/surveyfile"
	"surveyflow/internal/transport/rest"
	"surveyflow/internal/transport/ws"
)

var (
	servePort    string
	serveCatalog string
)

// @title Surveyflow API
// @version 1.0
// @description Conditional surveys with live completion tracking
// @BasePath /v1
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API",
	Long: `Run the REST API for hosts and respondents plus the host dashboard
WebSocket.

In-progress responses are kept in Redis; definitions and submitted
responses live in MongoDB. With --catalog, respondents are served the
YAML definitions found in that directory instead of stored ones.

Example:
  surveyflow serve --port 8080
  surveyflow serve --catalog ./surveys`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func setupServeFlags() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides server.port)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "directory of YAML survey definitions served to respondents")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.ValidateServe(); err != nil {
		return ExitError{Code: ExitCodeConfigError, Err: err}
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}

	var opts []app.Option
	if serveCatalog != "" {
		catalog, err := surveyfile.LoadDir(serveCatalog)
		if err != nil {
			return ExitError{Code: ExitCodeDefinitionError, Err: err}
		}
		log.Info().Str("dir", serveCatalog).Strs("surveys", catalog.IDs()).Msg("Loaded survey catalog")
		opts = append(opts, app.WithSurveyProvider(catalog))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, opts...)
	if err != nil {
		return ExitError{Code: ExitCodeStoreError, Err: err}
	}
	defer a.Close(context.Background())

	hub := ws.NewHub()
	defer hub.Close()
	a.ResponseService.SetBroadcaster(hub)
	a.SurveyService.SetBroadcaster(hub)

	router := rest.NewRouter(&rest.Container{
		AuthService:     a.AuthService,
		SurveyService:   a.SurveyService,
		ResponseService: a.ResponseService,
		WSHub:           hub,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("host_username", cfg.Auth.HostUsername).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return ExitError{Code: ExitCodeServerError, Err: fmt.Errorf("listen: %w", err)}
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return ExitError{Code: ExitCodeServerError, Err: fmt.Errorf("server forced to shutdown: %w", err)}
	}

	log.Info().Msg("Server exited")
	return nil
}
