package sources

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/config"
)

// Payload formats reported in FetchResult.Format
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatDatabase = "database"
)

//go:generate mockgen -destination=mocks/mock_source_handler.go -package=mocks -source=types.go SourceHandler,SourceHandlerFactory

// SourceHandler is an interface with methods to fetch data from external data sources
type SourceHandler interface {
	// FetchCatalog retrieves the catalog records from the source
	FetchCatalog(ctx context.Context, source *config.SourceConfig) (*FetchResult, error)

	// Validate validates the source configuration
	Validate(source *config.SourceConfig) error

	// CurrentHash returns the current hash of the source data. Handlers that
	// cannot compute it more cheaply perform a full fetch.
	CurrentHash(ctx context.Context, source *config.SourceConfig) (string, error)
}

// FetchResult contains the result of a fetch operation
type FetchResult struct {
	// Items are the decoded records in source order
	Items []catalog.Item

	// Hash is the SHA256 hash of the fetched data for change detection
	Hash string

	// ItemCount is the number of records fetched, before snapshot validation
	ItemCount int

	// Format indicates the original format of the source data
	Format string
}

// NewFetchResult creates a new FetchResult from decoded items and a pre-calculated hash.
// The hash should be calculated by the source handler to ensure consistency with CurrentHash.
func NewFetchResult(items []catalog.Item, hash string, format string) *FetchResult {
	return &FetchResult{
		Items:     items,
		Hash:      hash,
		ItemCount: len(items),
		Format:    format,
	}
}

// SourceHandlerFactory creates source handlers based on source type
type SourceHandlerFactory interface {
	// CreateHandler creates a source handler for the given source type
	CreateHandler(sourceType string) (SourceHandler, error)
}

// DecodeData decodes a catalog document in the given format.
// YAML documents are normalized to JSON so both formats pass the same schema.
func DecodeData(data []byte, format string) ([]catalog.Item, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("data cannot be empty")
	}

	switch format {
	case FormatJSON:
		return catalog.DecodeJSON(data)
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		normalized, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize YAML document: %w", err)
		}
		return catalog.DecodeJSON(normalized)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// hashBytes returns the hex SHA256 of data
func hashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// hashItems hashes the canonical JSON encoding of items
func hashItems(items []catalog.Item) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode items for hashing: %w", err)
	}
	return hashBytes(data), nil
}
