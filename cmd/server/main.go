package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"arb-dashboard/internal/backend"
	"arb-dashboard/internal/bootstrap"
	"arb-dashboard/internal/config"
	"arb-dashboard/internal/pkg/logger"
	httptransport "arb-dashboard/internal/transport/http"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "arb-dashboard",
		Short:         "Chat and administration dashboard for the ARB Chatbot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Probe the ARB backend health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd.Context())
		},
	})
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Errorf("bootstrap failed: %v", err)
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Errorf("close resources failed: %v", err)
		}
	}()

	router := httptransport.NewRouter(app)
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return waitForShutdown(server, errCh)
}

func waitForShutdown(server *http.Server, errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Errorf("server failed: %v", err)
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown failed: %v", err)
		return err
	}
	return nil
}

func check(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := backend.NewClient(backend.OptionsFromConfig(cfg.Backend))
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	health, err := client.Health(checkCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Offline: %v\n", err)
		return err
	}
	fmt.Printf("Online: %s\n", health)
	return nil
}
