package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain flag", input: "--no-warnings", expected: "--no-warnings"},
		{name: "empty", input: "", expected: "''"},
		{name: "output template", input: "%(title)s [%(id)s].%(ext)s", expected: "'%(title)s [%(id)s].%(ext)s'"},
		{name: "format expression", input: "best[height<=720][ext=mp4]/best[height<=720]", expected: "'best[height<=720][ext=mp4]/best[height<=720]'"},
		{name: "single quote", input: "it's", expected: `'it'"'"'s'`},
		{name: "extractor args", input: "youtube:player_client=android,ios", expected: "youtube:player_client=android,ios"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteArg(tt.input))
		})
	}
}

func TestCommandLine(t *testing.T) {
	line := CommandLine("yt-dlp", "--format", "best[ext=mp4]/best", "--output", "/tmp/my downloads/%(title)s.%(ext)s")
	assert.Equal(t, "yt-dlp --format 'best[ext=mp4]/best' --output '/tmp/my downloads/%(title)s.%(ext)s'", line)

	assert.Equal(t, "'/opt/my tools/yt-dlp' --version", CommandLine("/opt/my tools/yt-dlp", "--version"))
}
