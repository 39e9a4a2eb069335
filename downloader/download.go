package downloader

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// DatasetDownloader fetches the dataset from a remote URL and keeps a copy on disk so
// restarts within MaxAge do not hit the network.
type DatasetDownloader struct {
	URL      string
	CacheDir string
	MaxAge   time.Duration
	Client   *http.Client
}

// NewDatasetDownloader creates a new downloader instance
func NewDatasetDownloader(url, cacheDir string, maxAge time.Duration) *DatasetDownloader {
	return &DatasetDownloader{
		URL:      url,
		CacheDir: cacheDir,
		MaxAge:   maxAge,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns the dataset body. A fresh cache entry wins over the network; if the
// download fails, a stale cache entry for the same URL is used instead.
func (d *DatasetDownloader) Fetch(ctx context.Context) ([]byte, error) {
	entry, cacheErr := loadCacheEntry(d.CacheDir)
	if cacheErr == nil && entry.URL == d.URL && entry.isValid(d.MaxAge) {
		log.Println("Using cached dataset")
		return readCachedBody(d.CacheDir)
	}

	body, err := d.download(ctx)
	if err != nil {
		if cacheErr == nil && entry.URL == d.URL {
			log.Printf("Download failed, using stale cached dataset: %v", err)
			return readCachedBody(d.CacheDir)
		}
		return nil, err
	}

	if err := writeCache(d.CacheDir, d.URL, body); err != nil {
		log.Printf("Failed to cache dataset: %v", err)
	}
	return body, nil
}

func (d *DatasetDownloader) download(ctx context.Context) ([]byte, error) {
	log.Printf("Downloading dataset from %s...", d.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", d.URL, err)
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request for %s failed: %w", d.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: %d", d.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s: %w", d.URL, err)
	}
	log.Printf("Dataset downloaded successfully (%d bytes)", len(body))
	return body, nil
}

// ClearCache removes any cached dataset.
func (d *DatasetDownloader) ClearCache() error {
	for _, name := range []string{cacheMetaFile, cacheBodyFile} {
		if err := os.Remove(cachePath(d.CacheDir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}
