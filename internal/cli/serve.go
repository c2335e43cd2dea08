package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/docuport/docuport/internal/analyzer"
	"github.com/docuport/docuport/internal/api"
	"github.com/docuport/docuport/internal/comparator"
	"github.com/docuport/docuport/internal/docstore"
)

var (
	serveHost string
	servePort int
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document portal HTTP API",
	Long: `Start the HTTP server exposing analysis, comparison, and chat
endpoints.

Examples:
  docuport serve
  docuport serve --port 9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	docs, err := docstore.New(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	llmSvc, err := newLLM()
	if err != nil {
		return err
	}

	chatSvc := api.NewChatService(cfg, embedder, llmSvc)
	defer chatSvc.Close()

	server := api.NewServer(cfg, docs, analyzer.New(llmSvc), comparator.New(llmSvc), chatSvc, version)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(ctx)
}
