package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bulktube-go/api/handlers"
	"github.com/yourusername/bulktube-go/api/middleware"
	"github.com/yourusername/bulktube-go/internal/domain"
)

// client talks to the BulkTube HTTP API
type client struct {
	baseURL    string
	httpClient *http.Client
}

func newClient(baseURL string) *client {
	// Downloads block until yt-dlp exits, so no overall timeout
	return &client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (c *client) Info(url string) (*domain.VideoInfo, error) {
	var info domain.VideoInfo
	if err := c.post("/api/info", handlers.InfoRequest{URL: url}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *client) Download(url, quality string) (*domain.DownloadResult, error) {
	var result domain.DownloadResult
	if err := c.post("/api/download", handlers.DownloadRequest{URL: url, Quality: handlers.Quality(quality)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) Health() (*handlers.HealthResponse, error) {
	var health handlers.HealthResponse
	if err := c.get("/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ready returns the extractor version reported by the server
func (c *client) Ready() (string, error) {
	var ready struct {
		Extractor string `json:"extractor"`
	}
	if err := c.get("/ready", &ready); err != nil {
		return "", err
	}
	return ready.Extractor, nil
}

func (c *client) post(path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, uuid.New().String())

	return c.do(req, out)
}

func (c *client) get(path string, out interface{}) error {
	httpClient := *c.httpClient
	httpClient.Timeout = 10 * time.Second

	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error  string `json:"error"`
			Reason string `json:"reason"`
		}
		if json.Unmarshal(body, &apiErr) == nil {
			if apiErr.Error != "" {
				return fmt.Errorf("%s", apiErr.Error)
			}
			if apiErr.Reason != "" {
				return fmt.Errorf("%s", apiErr.Reason)
			}
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	return json.Unmarshal(body, out)
}
