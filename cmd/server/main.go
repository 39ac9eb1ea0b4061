package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/bulktube-go/api"
	"github.com/yourusername/bulktube-go/internal/app"
	"github.com/yourusername/bulktube-go/internal/domain"
	"github.com/yourusername/bulktube-go/internal/infrastructure"
	"github.com/yourusername/bulktube-go/pkg/logger"
)

const (
	shutdownTimeout     = 30 * time.Second
	extractorCheckLimit = 5 * time.Second
)

var (
	version    = "1.0.0"
	configPath = flag.String("config", "", "Path to config file (default: ./configs/config.yaml)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bulktube-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Console logger until the configured one exists
	bootLog := logger.NewDefault()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		bootLog.Error("Failed to load config", zap.String("path", *configPath), zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		bootLog.Error("Failed to initialize logger", zap.String("output", config.Logging.OutputPath), zap.Error(err))
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	if err := createDirectories(config); err != nil {
		return err
	}

	extractor := infrastructure.NewYTDLPExtractor(&config.Extractor, config.Download.LogsDir, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if v, err := checkExtractor(ctx, extractor, extractorCheckLimit); err != nil {
		log.Warn("yt-dlp is not available, requests will fail until it is installed",
			zap.String("binary", config.Extractor.Binary),
			zap.Error(err))
	} else {
		log.Info("Found yt-dlp", zap.String("version", v))
	}

	infoSvc := app.NewInfoService(extractor, config.Extractor.InfoCacheTTL, log)
	downloadSvc := app.NewDownloadService(extractor, &config.Download, log)

	router := api.SetupRouter(infoSvc, downloadSvc, extractor, &config.Server, version, log)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Starting BulkTube server",
		zap.String("version", version),
		zap.String("addr", addr),
		zap.String("downloads_dir", config.Download.Dir))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server exited")
	return nil
}

// checkExtractor asks the extractor for its version, giving up after limit
func checkExtractor(ctx context.Context, extractor domain.Extractor, limit time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()
	return extractor.Version(ctx)
}

func createDirectories(config *domain.Config) error {
	dirs := []string{
		config.Download.Dir,
		config.Download.LogsDir,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
