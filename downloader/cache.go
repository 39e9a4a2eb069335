package downloader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheMetaFile = "cache.json"
	cacheBodyFile = "dataset.cache"
)

type cacheEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
	Size      int    `json:"size"`
}

func cachePath(dir, name string) string {
	return filepath.Join(dir, name)
}

func writeCache(dir, url string, body []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(cachePath(dir, cacheBodyFile), body, 0644); err != nil {
		return fmt.Errorf("failed to write cached dataset: %w", err)
	}

	entry := cacheEntry{
		URL:       url,
		Timestamp: time.Now().Unix(),
		Size:      len(body),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := os.WriteFile(cachePath(dir, cacheMetaFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func loadCacheEntry(dir string) (*cacheEntry, error) {
	data, err := os.ReadFile(cachePath(dir, cacheMetaFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &entry, nil
}

func readCachedBody(dir string) ([]byte, error) {
	body, err := os.ReadFile(cachePath(dir, cacheBodyFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read cached dataset: %w", err)
	}
	return body, nil
}

func (e *cacheEntry) isValid(maxAge time.Duration) bool {
	return time.Since(time.Unix(e.Timestamp, 0)) <= maxAge
}
