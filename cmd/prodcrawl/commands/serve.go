package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/prodcrawl/internal/api"
	"github.com/jmylchreest/prodcrawl/internal/config"
	"github.com/jmylchreest/prodcrawl/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Control API (spec.md §6)",
	Long: `Serve starts the gin-based Control API fronting the crawl engine:
POST /crawl, GET /task/{task_id}, DELETE /task/{task_id}, GET
/urls/{task_id}/{domain}, and GET /health.

Example:
  prodcrawl serve --addr :8080 --storage twotier`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.String("storage", "memory", "storage backend: memory, twotier")
	flags.Bool("browser", false, "enable headless-browser fallback fetch")
	flags.String("side-output", "", "directory for optional JSON/CSV side files (spec.md §4.5)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		logError("loading config: %v", err)
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	storageKind, _ := cmd.Flags().GetString("storage")
	useBrowser, _ := cmd.Flags().GetBool("browser")
	sideOutput, _ := cmd.Flags().GetString("side-output")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng, store, err := buildEngine(ctx, cfg, storageKind, useBrowser, sideOutput)
	if err != nil {
		logError("building engine: %v", err)
		return err
	}
	defer func() { _ = store.Close() }()

	router := api.NewRouter(api.NewServer(eng, store))
	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve listening", "addr", addr, "storage", storageKind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("serve shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
