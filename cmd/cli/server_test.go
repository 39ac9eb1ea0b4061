package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsServerRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		http.NotFound(w, r)
	}))

	assert.True(t, isServerRunning(srv.URL))
	assert.NoError(t, waitForServerReady(srv.URL, time.Second))

	srv.Close()
	assert.False(t, isServerRunning(srv.URL))
}

func TestWaitForServerReady_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := waitForServerReady(srv.URL, 300*time.Millisecond)
	assert.Error(t, err)
}

func TestServerEnv(t *testing.T) {
	assert.Contains(t, serverEnv("http://localhost:6001"), "BULKTUBE_SERVER_PORT=6001")
	assert.NotContains(t, serverEnv("http://localhost"), "BULKTUBE_SERVER_PORT=")
}
