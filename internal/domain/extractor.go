package domain

import "context"

// Extractor is the external media extraction tool
type Extractor interface {
	// ExtractInfo fetches metadata for url without downloading anything
	ExtractInfo(ctx context.Context, url string) (*MediaInfo, error)

	// Download fetches the media selected by req.Format into req.OutputTemplate
	Download(ctx context.Context, req DownloadRequest) error

	// Version returns the extractor version, used for readiness checks
	Version(ctx context.Context) (string, error)
}
