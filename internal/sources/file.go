package sources

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/popguide/catalog-server/internal/config"
)

// fileSourceHandler handles catalog data from local files
type fileSourceHandler struct{}

// NewFileSourceHandler creates a new file source handler
func NewFileSourceHandler() SourceHandler {
	return &fileSourceHandler{}
}

// Validate validates the file source configuration
func (*fileSourceHandler) Validate(source *config.SourceConfig) error {
	if source == nil {
		return fmt.Errorf("source configuration cannot be nil")
	}
	if source.File == nil {
		return fmt.Errorf("file configuration is required")
	}
	if source.File.Path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	if _, err := formatForPath(source.File.Path); err != nil {
		return err
	}
	return nil
}

// FetchCatalog reads and decodes the catalog file
func (h *fileSourceHandler) FetchCatalog(ctx context.Context, source *config.SourceConfig) (*FetchResult, error) {
	data, hash, err := h.fetchFileData(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file data: %w", err)
	}

	format, _ := formatForPath(source.File.Path)
	items, err := DecodeData(data, format)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slog.Debug("Read catalog file", "path", source.File.Path, "item_count", len(items))
	return NewFetchResult(items, hash, format), nil
}

// CurrentHash hashes the file without decoding it
func (h *fileSourceHandler) CurrentHash(ctx context.Context, source *config.SourceConfig) (string, error) {
	_, hash, err := h.fetchFileData(ctx, source)
	if err != nil {
		return "", err
	}
	return hash, nil
}

// fetchFileData reads the file and calculates its hash
func (h *fileSourceHandler) fetchFileData(_ context.Context, source *config.SourceConfig) ([]byte, string, error) {
	if err := h.Validate(source); err != nil {
		return nil, "", fmt.Errorf("source validation failed: %w", err)
	}

	filePath := source.File.Path

	//nolint:gosec // File path comes from user configuration, this is expected behavior
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("file not found: %s", filePath)
		}
		return nil, "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return data, hashBytes(data), nil
}

func formatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog file extension %q: expected .json, .yaml or .yml", filepath.Ext(path))
	}
}
