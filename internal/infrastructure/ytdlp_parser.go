package infrastructure

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/valyala/fastjson"
	"github.com/yourusername/bulktube-go/internal/domain"
)

const ytdlpErrorPrefix = "ERROR: "

// ExtractorError carries yt-dlp's own error text so it can be shown verbatim
type ExtractorError struct {
	Message string
	Err     error
}

func (e *ExtractorError) Error() string {
	return e.Message
}

func (e *ExtractorError) Unwrap() error {
	return e.Err
}

// parseMediaInfo decodes the output of `yt-dlp --dump-single-json`
func parseMediaInfo(data []byte) (*domain.MediaInfo, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(bytes.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("unexpected yt-dlp output type: %s", v.Type())
	}

	info := &domain.MediaInfo{
		ID:        string(v.GetStringBytes("id")),
		Title:     string(v.GetStringBytes("title")),
		Thumbnail: optionalString(v, "thumbnail"),
		Duration:  optionalString(v, "duration_string"),
		DirectURL: string(v.GetStringBytes("url")),
	}

	for _, f := range v.GetArray("formats") {
		info.Formats = append(info.Formats, domain.MediaFormat{
			FormatID:   string(f.GetStringBytes("format_id")),
			Ext:        string(f.GetStringBytes("ext")),
			Height:     int(math.Round(f.GetFloat64("height"))),
			VideoCodec: string(f.GetStringBytes("vcodec")),
			AudioCodec: string(f.GetStringBytes("acodec")),
		})
	}

	return info, nil
}

// optionalString returns nil when key is missing or not a string
func optionalString(v *fastjson.Value, key string) *string {
	field := v.Get(key)
	if field == nil || field.Type() != fastjson.TypeString {
		return nil
	}
	s := string(field.GetStringBytes())
	return &s
}

// extractorError picks the last "ERROR: " line yt-dlp printed on stderr.
// When there is none, the process error is reported instead.
func extractorError(stderr []byte, runErr error) error {
	var last string
	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ytdlpErrorPrefix) {
			last = line
		}
	}

	if last != "" {
		return &ExtractorError{Message: last, Err: runErr}
	}
	if runErr == nil {
		return &ExtractorError{Message: "yt-dlp produced no output"}
	}
	return &ExtractorError{Message: fmt.Sprintf("yt-dlp failed: %v", runErr), Err: runErr}
}
