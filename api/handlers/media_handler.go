package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/bulktube-go/api/middleware"
	"github.com/yourusername/bulktube-go/internal/domain"
	"go.uber.org/zap"
)

// InfoResolver resolves a URL into its quality menu
type InfoResolver interface {
	Resolve(ctx context.Context, url string) (*domain.VideoInfo, error)
}

// DownloadTrigger runs a download for a URL and quality
type DownloadTrigger interface {
	Download(ctx context.Context, requestID, url, quality string) (*domain.DownloadResult, error)
}

// MediaHandler handles the info and download endpoints
type MediaHandler struct {
	info     InfoResolver
	download DownloadTrigger
	logger   *zap.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(info InfoResolver, download DownloadTrigger, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		info:     info,
		download: download,
		logger:   logger,
	}
}

// InfoRequest represents a request for media info
type InfoRequest struct {
	URL string `json:"url"`
}

// DownloadRequest represents a request to download media
type DownloadRequest struct {
	URL     string  `json:"url"`
	Quality Quality `json:"quality,omitempty"`
}

// Quality accepts either a JSON string ("720", "best") or a JSON number (720)
type Quality string

// UnmarshalJSON implements json.Unmarshaler
func (q *Quality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = Quality(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return domain.ErrInvalidQuality
	}
	*q = Quality(n.String())
	return nil
}

// GetInfo handles POST /api/info
func (h *MediaHandler) GetInfo(c *gin.Context) {
	var req InfoRequest
	if err := h.bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	info, err := h.info.Resolve(c.Request.Context(), req.URL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// Download handles POST /api/download
func (h *MediaHandler) Download(c *gin.Context) {
	var req DownloadRequest
	if err := h.bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.download.Download(c.Request.Context(), middleware.GetRequestID(c), req.URL, string(req.Quality))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindJSON decodes the request body. An empty body means no URL was sent.
func (h *MediaHandler) bindJSON(c *gin.Context, req interface{}) error {
	err := c.ShouldBindJSON(req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return domain.ErrMissingURL
	case errors.Is(err, domain.ErrInvalidQuality):
		return domain.ErrInvalidQuality
	default:
		h.logger.Debug("Rejected request body", zap.String("path", c.Request.URL.Path), zap.Error(err))
		return domain.ErrInvalidRequest
	}
}

// respondError maps validation failures to 400 and everything else to 500
func (h *MediaHandler) respondError(c *gin.Context, err error) {
	if domain.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Error("Extractor request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
