package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/yourusername/bulktube-go/internal/domain"
	"go.uber.org/zap"
)

// InfoService resolves a media URL into its title and quality menu
type InfoService struct {
	extractor domain.Extractor
	cache     *cache.Cache // nil when caching is disabled
	logger    *zap.Logger
}

// NewInfoService creates a new info service.
// A zero cacheTTL disables the metadata cache.
func NewInfoService(extractor domain.Extractor, cacheTTL time.Duration, logger *zap.Logger) *InfoService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &InfoService{
		extractor: extractor,
		logger:    logger,
	}
	if cacheTTL > 0 {
		s.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

// Resolve validates rawURL, queries the extractor and shapes the response
func (s *InfoService) Resolve(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	url, err := domain.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	media, err := s.extract(ctx, url)
	if err != nil {
		s.logger.Warn("Failed to extract media info", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	title := media.Title
	if title == "" {
		title = domain.DefaultTitle
	}

	info := &domain.VideoInfo{
		Title:     title,
		Thumbnail: media.Thumbnail,
		Duration:  media.Duration,
		URL:       url,
		Qualities: domain.BuildQualityOptions(media.Formats),
	}

	s.logger.Info("Resolved media info",
		zap.String("url", url),
		zap.String("title", title),
		zap.Int("formats", len(media.Formats)),
		zap.Int("qualities", len(info.Qualities)),
		zap.Bool("direct_url", media.DirectURL != ""))

	return info, nil
}

func (s *InfoService) extract(ctx context.Context, url string) (*domain.MediaInfo, error) {
	if s.cache == nil {
		return s.extractor.ExtractInfo(ctx, url)
	}

	key := cacheKey(url)
	if cached, ok := s.cache.Get(key); ok {
		if media, ok := cached.(*domain.MediaInfo); ok {
			s.logger.Debug("Media info served from cache", zap.String("url", url))
			return media, nil
		}
		s.cache.Delete(key)
	}

	media, err := s.extractor.ExtractInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, media)
	return media, nil
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
