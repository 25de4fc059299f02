package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-keyword-matcher/internal/config"
	"github.com/jonathan/cv-keyword-matcher/internal/db"
	"github.com/jonathan/cv-keyword-matcher/internal/ingestion"
	"github.com/jonathan/cv-keyword-matcher/internal/server"
)

var (
	servePort       int
	serveUploadDir  string
	serveTopN       int
	serveProvider   string
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes keyword comparison, enhancement, uploads and
analysis endpoints. Uploads go to S3 when S3_BUCKET is set and to --upload-dir
otherwise. Comparison history is enabled when DATABASE_URL is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveUploadDir, "upload-dir", "", "Directory for uploaded files (default: uploads)")
	serveCmd.Flags().IntVar(&serveTopN, "top-n", 0, "Default keywords per document (default 20)")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "LLM provider for /enhance: gemini, anthropic or openai")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Retry job URLs in headless Chrome")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolve(config.Config{
		UploadDir:  serveUploadDir,
		TopN:       serveTopN,
		Provider:   serveProvider,
		UseBrowser: serveUseBrowser,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create file store: %w", err)
	}

	enhancer, closeEnhancer := optionalEnhancer(ctx, cfg)
	defer closeEnhancer()

	srvCfg := server.Config{
		Port:        servePort,
		Store:       store,
		Enhancer:    enhancer,
		URLOptions:  ingestion.URLOptions{UseBrowser: cfg.UseBrowser, Logger: logger},
		DefaultTopN: cfg.TopN,
		Logger:      logger,
	}

	if cfg.DatabaseURL != "" {
		database, err := connectHistory(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		srvCfg.History = database
	} else {
		logger.Info("DATABASE_URL not set, comparison history disabled")
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}

func connectHistory(ctx context.Context, url string) (*db.DB, error) {
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
