package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/ytdlp-web-go/internal/domain"
)

const fallbackFilename = "video"

// client talks to a running ytdlp-web server
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// health checks if the server is responding to health checks
func (c *client) health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := c.get(ctx, "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

// download fetches videoURL through the server and saves it under dir.
// It returns the written path and size.
func (c *client) download(ctx context.Context, videoURL, dir string) (string, int64, error) {
	resp, err := c.get(ctx, "/api/download?url="+url.QueryEscape(videoURL))
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", 0, fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to save %s: %w", path, err)
	}

	return path, n, nil
}

// history returns the most recent download records
func (c *client) history(ctx context.Context, limit int) ([]domain.DownloadRecord, error) {
	var result struct {
		Records []domain.DownloadRecord `json:"records"`
	}
	if err := c.getJSON(ctx, "/api/history?limit="+strconv.Itoa(limit), &result); err != nil {
		return nil, err
	}
	return result.Records, nil
}

// stats returns the download history statistics
func (c *client) stats(ctx context.Context) (*domain.HistoryStats, error) {
	var stats domain.HistoryStats
	if err := c.getJSON(ctx, "/api/history/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

func (c *client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.New("download history is not enabled on the server")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// filenameFromDisposition decodes the percent-encoded attachment filename.
// Anything that cannot name a file inside the target directory falls back to "video".
func filenameFromDisposition(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallbackFilename
	}

	name, err := url.PathUnescape(params["filename"])
	if err != nil {
		return fallbackFilename
	}

	name = strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(name)
	if name == "" || name == "." || name == ".." {
		return fallbackFilename
	}
	return name
}
