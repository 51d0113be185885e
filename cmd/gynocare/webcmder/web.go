package webcmder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gynocare-chat/internal/config"
	"gynocare-chat/internal/frontend"
	"gynocare-chat/internal/logging"
	"gynocare-chat/internal/webui"
)

const webLongDesc string = `Serve the browser chat.

Each browser gets its own conversation, kept in memory until the server
stops. Messages are relayed to the backend's /chat endpoint.

Examples:
  gynocare web
  gynocare web --port 9000`

const webShortDesc string = "Serve the FAQ chat in the browser"

type webCommander struct {
	port string
}

func NewWebCmd() *cobra.Command {
	cmder := &webCommander{}

	cmd := &cobra.Command{
		Use:   "web",
		Short: webShortDesc,
		Long:  webLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultFrontendConfigPath()
			}
			cfg, err := config.LoadFrontend(path)
			if err != nil {
				return err
			}
			if cmder.port != "" {
				cfg.WebPort = cmder.port
			}
			return cmder.run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&cmder.port, "port", "p", "", "Port to listen on (overrides WEB_PORT)")

	return cmd
}

func (c *webCommander) run(ctx context.Context, cfg *config.FrontendConfig) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	server, err := webui.NewServer(frontend.NewClient(cfg.BackendURL, cfg.BackendTimeout))
	if err != nil {
		return fmt.Errorf("could not build web UI: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting web UI", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web UI failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down web UI")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
