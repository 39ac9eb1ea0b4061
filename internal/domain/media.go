package domain

import (
	"errors"
	"net/url"
	"strings"
)

// Validation errors returned before the extractor is ever invoked
var (
	ErrMissingURL     = errors.New("No URL provided")
	ErrInvalidURL     = errors.New("Invalid URL")
	ErrInvalidQuality = errors.New("Invalid quality")
	ErrInvalidRequest = errors.New("Invalid request body")
)

// DefaultTitle is reported when the extractor returns no title
const DefaultTitle = "Unknown Title"

// MediaFormat is one encoded stream reported by the extractor
type MediaFormat struct {
	FormatID   string
	Ext        string
	Height     int
	VideoCodec string // empty when the extractor did not report one
	AudioCodec string
}

// HasVideo reports whether the format carries a video stream.
// Only an explicit "none" rules video out.
func (f MediaFormat) HasVideo() bool {
	return f.VideoCodec != "none"
}

// MediaInfo is the metadata the extractor returns for a URL
type MediaInfo struct {
	ID        string
	Title     string
	Thumbnail *string
	Duration  *string
	DirectURL string
	Formats   []MediaFormat
}

// VideoInfo is the response body of the info endpoint
type VideoInfo struct {
	Title     string          `json:"title"`
	Thumbnail *string         `json:"thumbnail"`
	Duration  *string         `json:"duration"`
	URL       string          `json:"url"`
	Qualities []QualityOption `json:"qualities"`
}

// DownloadResult is the response body of a successful download
type DownloadResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DownloadRequest describes a single download run handed to the extractor
type DownloadRequest struct {
	ID             string // request id, used to frame the extractor log
	URL            string
	Format         string
	OutputTemplate string
}

// ValidateURL checks that a user supplied media URL is usable
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingURL
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}

	return raw, nil
}

// IsValidationError reports whether err should be answered with 400
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingURL) ||
		errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrInvalidQuality) ||
		errors.Is(err, ErrInvalidRequest)
}
