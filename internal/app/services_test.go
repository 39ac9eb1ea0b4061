package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bulktube-go/internal/domain"
)

// mockExtractor implements domain.Extractor for testing
type mockExtractor struct {
	mu        sync.Mutex
	info      *domain.MediaInfo
	err       error
	infoCalls int
	downloads []domain.DownloadRequest
	// ctxErrs records ctx.Err() as seen by each Download call
	ctxErrs   []error
}

func (m *mockExtractor) ExtractInfo(ctx context.Context, url string) (*domain.MediaInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infoCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

func (m *mockExtractor) Download(ctx context.Context, req domain.DownloadRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads = append(m.downloads, req)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	return m.err
}

func (m *mockExtractor) Version(ctx context.Context) (string, error) {
	return "test", nil
}

func strPtr(s string) *string { return &s }

func TestInfoService_Resolve(t *testing.T) {
	extractor := &mockExtractor{info: &domain.MediaInfo{
		ID:        "abc",
		Title:     "Sample",
		Thumbnail: strPtr("https://img.example.com/t.jpg"),
		Duration:  strPtr("4:05"),
		Formats: []domain.MediaFormat{
			{Height: 1080, VideoCodec: "vp9", AudioCodec: "none"},
			{Height: 720, VideoCodec: "avc1", AudioCodec: "mp4a"},
			{Height: 720, VideoCodec: "vp9", AudioCodec: "none"},
			{Height: 480, VideoCodec: "avc1"},
			{VideoCodec: "none", AudioCodec: "opus"},
		},
	}}
	svc := NewInfoService(extractor, 0, nil)

	info, err := svc.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)

	assert.Equal(t, "Sample", info.Title)
	assert.Equal(t, "https://img.example.com/t.jpg", *info.Thumbnail)
	assert.Equal(t, "4:05", *info.Duration)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", info.URL)
	assert.Equal(t, []domain.QualityOption{
		{ID: "best", Label: "Best Quality"},
		{ID: "1080", Label: "1080p"},
		{ID: "720", Label: "720p"},
		{ID: "480", Label: "480p"},
	}, info.Qualities)
}

func TestInfoService_Resolve_DirectURLOnly(t *testing.T) {
	extractor := &mockExtractor{info: &domain.MediaInfo{
		ID:        "clip",
		DirectURL: "https://cdn.example.com/clip.mp4",
	}}
	svc := NewInfoService(extractor, 0, nil)

	info, err := svc.Resolve(context.Background(), "https://example.com/clip")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTitle, info.Title)
	assert.Nil(t, info.Thumbnail)
	assert.Nil(t, info.Duration)
	assert.Equal(t, []domain.QualityOption{domain.BestQualityOption()}, info.Qualities)
}

func TestInfoService_Resolve_ValidationSkipsExtractor(t *testing.T) {
	extractor := &mockExtractor{}
	svc := NewInfoService(extractor, 0, nil)

	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingURL)

	_, err = svc.Resolve(context.Background(), "not a url")
	assert.ErrorIs(t, err, domain.ErrInvalidURL)

	assert.Zero(t, extractor.infoCalls)
}

func TestInfoService_Resolve_ExtractorError(t *testing.T) {
	extractor := &mockExtractor{err: errors.New("ERROR: [youtube] abc: Video unavailable")}
	svc := NewInfoService(extractor, 0, nil)

	_, err := svc.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.Error(t, err)
	assert.Equal(t, "ERROR: [youtube] abc: Video unavailable", err.Error())
}

func TestInfoService_Cache(t *testing.T) {
	extractor := &mockExtractor{info: &domain.MediaInfo{Title: "Cached"}}
	svc := NewInfoService(extractor, time.Minute, nil)

	for i := 0; i < 3; i++ {
		info, err := svc.Resolve(context.Background(), "https://example.com/v/1")
		require.NoError(t, err)
		assert.Equal(t, "Cached", info.Title)
	}
	assert.Equal(t, 1, extractor.infoCalls)

	_, err := svc.Resolve(context.Background(), "https://example.com/v/2")
	require.NoError(t, err)
	assert.Equal(t, 2, extractor.infoCalls)
}

func TestInfoService_CacheSkipsErrors(t *testing.T) {
	extractor := &mockExtractor{err: errors.New("ERROR: network down")}
	svc := NewInfoService(extractor, time.Minute, nil)

	_, err := svc.Resolve(context.Background(), "https://example.com/v/1")
	require.Error(t, err)

	extractor.err = nil
	extractor.info = &domain.MediaInfo{Title: "Back"}
	info, err := svc.Resolve(context.Background(), "https://example.com/v/1")
	require.NoError(t, err)
	assert.Equal(t, "Back", info.Title)
	assert.Equal(t, 2, extractor.infoCalls)
}

func newTestDownloadConfig() *domain.DownloadConfig {
	return &domain.DownloadConfig{
		Dir:                "/srv/downloads",
		OutputTemplate:     "%(title)s [%(id)s].%(ext)s",
		PreferredContainer: "mp4",
	}
}

func TestDownloadService_Best(t *testing.T) {
	extractor := &mockExtractor{}
	svc := NewDownloadService(extractor, newTestDownloadConfig(), nil)

	result, err := svc.Download(context.Background(), "req-1", "https://example.com/v/1", "")
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, DownloadCompletedMessage, result.Message)
	require.Len(t, extractor.downloads, 1)
	req := extractor.downloads[0]
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, "https://example.com/v/1", req.URL)
	assert.Equal(t, "best[ext=mp4]/best", req.Format)
	assert.Equal(t, filepath.Join("/srv/downloads", "%(title)s [%(id)s].%(ext)s"), req.OutputTemplate)
}

func TestDownloadService_HeightCeiling(t *testing.T) {
	extractor := &mockExtractor{}
	svc := NewDownloadService(extractor, newTestDownloadConfig(), nil)

	_, err := svc.Download(context.Background(), "req-2", "https://example.com/v/1", "720")
	require.NoError(t, err)

	require.Len(t, extractor.downloads, 1)
	assert.Equal(t, "best[height<=720][ext=mp4]/best[height<=720]", extractor.downloads[0].Format)
}

func TestDownloadService_Validation(t *testing.T) {
	extractor := &mockExtractor{}
	svc := NewDownloadService(extractor, newTestDownloadConfig(), nil)

	_, err := svc.Download(context.Background(), "req-3", "", "best")
	assert.ErrorIs(t, err, domain.ErrMissingURL)

	_, err = svc.Download(context.Background(), "req-4", "https://example.com/v/1", "720]/worst")
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)

	assert.Empty(t, extractor.downloads)
}

func TestDownloadService_ExtractorError(t *testing.T) {
	extractor := &mockExtractor{err: errors.New("ERROR: Requested format is not available")}
	svc := NewDownloadService(extractor, newTestDownloadConfig(), nil)

	result, err := svc.Download(context.Background(), "req-5", "https://example.com/v/1", "144")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "ERROR: Requested format is not available", err.Error())
}

func TestDownloadService_IgnoresCallerCancellation(t *testing.T) {
	extractor := &mockExtractor{}
	svc := NewDownloadService(extractor, newTestDownloadConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Download(ctx, "req-6", "https://example.com/v/1", "best")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)

	require.Len(t, extractor.ctxErrs, 1)
	assert.NoError(t, extractor.ctxErrs[0])
}
