package app

import (
	"context"
	"time"

	"github.com/yourusername/bulktube-go/internal/domain"
	"go.uber.org/zap"
)

// DownloadCompletedMessage is reported to the caller after a successful run
const DownloadCompletedMessage = "Download started/completed"

// DownloadService triggers extractor downloads into the downloads directory
type DownloadService struct {
	extractor domain.Extractor
	config    *domain.DownloadConfig
	logger    *zap.Logger
}

// NewDownloadService creates a new download service
func NewDownloadService(extractor domain.Extractor, config *domain.DownloadConfig, logger *zap.Logger) *DownloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownloadService{
		extractor: extractor,
		config:    config,
		logger:    logger,
	}
}

// Download validates the request, builds the format expression and blocks
// until the extractor finishes. requestID only tags logs.
// Caller cancellation does not stop the run. Only extractor.timeout bounds it.
func (s *DownloadService) Download(ctx context.Context, requestID, rawURL, quality string) (*domain.DownloadResult, error) {
	url, err := domain.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	quality, err = domain.NormalizeQuality(quality)
	if err != nil {
		return nil, err
	}

	req := domain.DownloadRequest{
		ID:             requestID,
		URL:            url,
		Format:         domain.FormatExpression(quality, s.config.PreferredContainer),
		OutputTemplate: s.config.OutputPath(),
	}

	s.logger.Info("Starting download",
		zap.String("request_id", requestID),
		zap.String("url", url),
		zap.String("quality", quality),
		zap.String("format", req.Format))

	start := time.Now()
	if err := s.extractor.Download(context.WithoutCancel(ctx), req); err != nil {
		s.logger.Error("Download failed",
			zap.String("request_id", requestID),
			zap.String("url", url),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Download completed",
		zap.String("request_id", requestID),
		zap.String("url", url),
		zap.Duration("elapsed", time.Since(start)))

	return &domain.DownloadResult{
		Status:  "success",
		Message: DownloadCompletedMessage,
	}, nil
}
