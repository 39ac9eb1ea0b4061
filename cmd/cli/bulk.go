package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// urlResult is the outcome of processing one URL of a batch
type urlResult struct {
	URL string
	Err error
}

// splitURLs breaks pasted input on commas and newlines
func splitURLs(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	urls := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			urls = append(urls, f)
		}
	}
	return urls
}

// collectURLs merges positional arguments with the contents of file.
// A file of "-" is read from stdin.
func collectURLs(args []string, file string, stdin io.Reader) ([]string, error) {
	urls := splitURLs(strings.Join(args, "\n"))

	if file != "" {
		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read URL list: %w", err)
		}
		urls = append(urls, splitURLs(string(data))...)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs given: pass them as arguments or with --file")
	}
	return urls, nil
}

// processURLs runs fn for each URL in order and keeps going past failures.
// Once ctx is done no further URL is started, the one in flight finishes.
func processURLs(ctx context.Context, urls []string, out io.Writer, fn func(url string) error) []urlResult {
	results := make([]urlResult, 0, len(urls))
	for i, url := range urls {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "Stopped, %d URL(s) not processed\n", len(urls)-i)
			break
		}

		if len(urls) > 1 {
			fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(urls), url)
		}
		err := fn(url)
		if err != nil {
			fmt.Fprintf(out, "  failed: %v\n", err)
		}
		results = append(results, urlResult{URL: url, Err: err})
	}
	return results
}

// countFailures reports how many results carry an error
func countFailures(results []urlResult) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}
