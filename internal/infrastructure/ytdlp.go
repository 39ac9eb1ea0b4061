package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/bulktube-go/internal/domain"
	"go.uber.org/zap"
)

// YTDLPExtractor implements domain.Extractor by running the yt-dlp binary
type YTDLPExtractor struct {
	config  *domain.ExtractorConfig
	logsDir string
	logger  *zap.Logger
}

// NewYTDLPExtractor creates a new yt-dlp backed extractor
func NewYTDLPExtractor(config *domain.ExtractorConfig, logsDir string, logger *zap.Logger) *YTDLPExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPExtractor{
		config:  config,
		logsDir: logsDir,
		logger:  logger,
	}
}

// ExtractInfo runs yt-dlp in metadata-only mode and decodes its JSON dump
func (e *YTDLPExtractor) ExtractInfo(ctx context.Context, url string) (*domain.MediaInfo, error) {
	args := e.infoArgs()

	var stdout, stderr bytes.Buffer
	e.logger.Debug("Running yt-dlp", zap.String("cmd", CommandLine(e.config.Binary, args...)), zap.String("url", url))

	if err := e.run(ctx, url, args, &stdout, &stderr); err != nil {
		return nil, extractorError(stderr.Bytes(), err)
	}
	if stdout.Len() == 0 {
		return nil, extractorError(stderr.Bytes(), nil)
	}

	return parseMediaInfo(stdout.Bytes())
}

// Download runs yt-dlp in download mode.
// All process output is appended to the dated download log.
func (e *YTDLPExtractor) Download(ctx context.Context, req domain.DownloadRequest) error {
	args := e.downloadArgs(req)

	downloadLog, err := e.openLogFile()
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer downloadLog.Close()

	writeLogHeader(downloadLog, req.ID, CommandLine(e.config.Binary, args...), req.URL)

	var stderr bytes.Buffer
	err = e.run(ctx, req.URL, args, downloadLog, io.MultiWriter(downloadLog, &stderr))
	if err != nil {
		extErr := extractorError(stderr.Bytes(), err)
		writeLogFooter(downloadLog, false, extErr.Error())
		return extErr
	}

	writeLogFooter(downloadLog, true, req.URL)
	return nil
}

// Version returns the output of `yt-dlp --version`
func (e *YTDLPExtractor) Version(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, e.config.Binary, "--version")
	cmd.WaitDelay = 2 * time.Second

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to run %s: %w", e.config.Binary, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *YTDLPExtractor) infoArgs() []string {
	return []string{
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		// URL goes through stdin so it can never be read as an option
		"--batch-file", "-",
	}
}

func (e *YTDLPExtractor) downloadArgs(req domain.DownloadRequest) []string {
	args := []string{
		"--format", req.Format,
		"--output", req.OutputTemplate,
		"--no-playlist",
		"--newline",
	}

	if e.config.NoCheckCertificate {
		args = append(args, "--no-check-certificates")
	}

	if len(e.config.PlayerClients) > 0 {
		args = append(args, "--extractor-args", "youtube:player_client="+strings.Join(e.config.PlayerClients, ","))
	}

	return append(args, "--batch-file", "-")
}

func (e *YTDLPExtractor) run(ctx context.Context, url string, args []string, stdout, stderr io.Writer) error {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	cmd.Stdin = strings.NewReader(url + "\n")
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ctxErr, err)
		}
		return err
	}
	return nil
}

// openLogFile opens the download log file for today
func (e *YTDLPExtractor) openLogFile() (*os.File, error) {
	if err := os.MkdirAll(e.logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	dateStr := time.Now().Format("20060102")
	return os.OpenFile(filepath.Join(e.logsDir, "download-"+dateStr+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func writeLogHeader(w io.Writer, requestID, cmdLine, url string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(w, "\n=== [%s] Download: %s ===\n", timestamp, requestID)
	fmt.Fprintf(w, "$ %s < %s\n", cmdLine, quoteArg(url))
}

func writeLogFooter(w io.Writer, success bool, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, status, message)
	fmt.Fprint(w, "=== END ===\n\n")
}
