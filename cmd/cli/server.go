package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const (
	serverBinaryName   = "bulktube-server"
	serverStartTimeout = 10 * time.Second
	serverPollInterval = 200 * time.Millisecond
)

// isServerRunning reports whether baseURL answers its health check
func isServerRunning(baseURL string) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// serverBinaryCandidates lists where bulktube-server is looked up, in order
func serverBinaryCandidates() []string {
	var candidates []string
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), serverBinaryName))
	}
	if p, err := exec.LookPath(serverBinaryName); err == nil {
		candidates = append(candidates, p)
	}
	home := os.Getenv("HOME")
	return append(candidates,
		filepath.Join("/usr/local/bin", serverBinaryName),
		filepath.Join(home, "go/bin", serverBinaryName),
		filepath.Join(home, ".local/bin", serverBinaryName),
	)
}

func findServerBinary() (string, error) {
	for _, p := range serverBinaryCandidates() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s binary not found", serverBinaryName)
}

// serverEnv points the spawned server at the port the CLI is configured for
func serverEnv(baseURL string) []string {
	env := os.Environ()
	u, err := url.Parse(baseURL)
	if err != nil || u.Port() == "" {
		return env
	}
	return append(env, "BULKTUBE_SERVER_PORT="+u.Port())
}

// startServerBackground launches the server detached from the terminal
func startServerBackground(baseURL string) error {
	serverPath, err := findServerBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(serverPath)
	cmd.Env = serverEnv(baseURL)
	setSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	go cmd.Wait()
	return nil
}

// waitForServerReady polls baseURL until it is healthy or timeout elapses
func waitForServerReady(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if isServerRunning(baseURL) {
			return nil
		}
		time.Sleep(serverPollInterval)
	}

	return fmt.Errorf("server did not start within %v", timeout)
}

func ensureServerRunning() error {
	if isServerRunning(serverURL) {
		return nil
	}

	fmt.Println("Server not running, starting...")

	if err := startServerBackground(serverURL); err != nil {
		return err
	}
	if err := waitForServerReady(serverURL, serverStartTimeout); err != nil {
		return err
	}

	fmt.Println("Server started successfully")
	return nil
}
