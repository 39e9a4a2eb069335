package data

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meditationhr/downloader"
	"github.com/meditationhr/models"
)

// Origin says where the loaded samples came from.
type Origin string

const (
	OriginURL      Origin = "url"
	OriginFile     Origin = "file"
	OriginFallback Origin = "fallback"
)

// Options selects the dataset source. URL takes precedence over File.
type Options struct {
	File        string
	URL         string
	CacheDir    string
	CacheMaxAge time.Duration
	Fallback    bool
	Seed        uint64
}

var errNoSource = errors.New("no dataset source configured")

// LoadStore reads the configured source and builds the sample store. When the source
// cannot be read or contains a bad record and Fallback is set, a synthetic dataset is
// loaded instead; otherwise the error is returned.
func LoadStore(ctx context.Context, opts Options) (*models.SampleStore, Origin, error) {
	store, origin, err := loadSource(ctx, opts)
	if err == nil {
		log.Printf("Loaded %d samples from %s", store.Len(), origin)
		return store, origin, nil
	}
	if !opts.Fallback {
		return nil, origin, err
	}

	log.Printf("Error loading data, using synthetic sample data: %v", err)
	store, err = models.Load(Synthetic(opts.Seed, FallbackSize))
	if err != nil {
		return nil, OriginFallback, fmt.Errorf("failed to load fallback data: %w", err)
	}
	return store, OriginFallback, nil
}

func loadSource(ctx context.Context, opts Options) (*models.SampleStore, Origin, error) {
	var (
		records []models.RawRecord
		origin  Origin
		err     error
	)
	switch {
	case opts.URL != "":
		origin = OriginURL
		records, err = fetchRecords(ctx, opts)
	case opts.File != "":
		origin = OriginFile
		records, err = ReadFile(opts.File)
	default:
		return nil, "", errNoSource
	}
	if err != nil {
		return nil, origin, err
	}

	store, err := models.Load(records)
	if err != nil {
		return nil, origin, fmt.Errorf("failed to load %s dataset: %w", origin, err)
	}
	return store, origin, nil
}

func fetchRecords(ctx context.Context, opts Options) ([]models.RawRecord, error) {
	d := downloader.NewDatasetDownloader(opts.URL, opts.CacheDir, opts.CacheMaxAge)
	body, err := d.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(body), formatOf(opts.URL))
}

// ReadFile reads a local dataset, choosing the format from the file extension.
func ReadFile(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := Read(f, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// Read parses a dataset in the given format ("csv" or "xlsx").
func Read(r io.Reader, format string) ([]models.RawRecord, error) {
	switch format {
	case "xlsx":
		return ReadXLSX(r)
	case "csv", "":
		return ReadCSV(r)
	}
	return nil, fmt.Errorf("unsupported dataset format %q", format)
}

// formatOf guesses the format from a path or URL, ignoring any query string.
func formatOf(name string) string {
	name, _, _ = strings.Cut(name, "?")
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return "xlsx"
	default:
		return "csv"
	}
}
