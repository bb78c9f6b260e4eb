package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"interviewcoach/handlers"
	"interviewcoach/services/interview"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interviews over HTTP",
	Long: `Serve exposes the interview lifecycle as a JSON API together with /health
and Prometheus /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath, "")
	if err != nil {
		return err
	}
	defer a.close()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		a.cfg.Server.Port = port
	}

	stages, err := a.stages()
	if err != nil {
		a.logger.Error("Failed to create interview stages", zap.Error(err))
		return err
	}

	registry := interview.NewRegistry(func(id string) *interview.Orchestrator {
		return a.newOrchestrator(stages, id)
	}, a.logger)
	router := handlers.NewRouter(handlers.NewInterviewHandler(registry, a.repo, a.logger), a.gatherer)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Server starting", zap.String("port", a.cfg.Server.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		a.logger.Error("Server failed", zap.Error(err))
		return fmt.Errorf("server failed: %w", err)
	case <-cmd.Context().Done():
	}

	a.logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}
