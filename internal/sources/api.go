package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/httpclient"
)

// maxAPIPages bounds a single fetch against an endpoint that never runs dry
const maxAPIPages = 10000

// apiSourceHandler handles catalog data from a paged REST collection.
// Pages are requested with limit/offset until a short page is returned.
type apiSourceHandler struct {
	newClient func(apiKey string) httpclient.Client
}

// NewAPISourceHandler creates a new API source handler
func NewAPISourceHandler() SourceHandler {
	return &apiSourceHandler{newClient: defaultAPIClient}
}

func defaultAPIClient(apiKey string) httpclient.Client {
	if apiKey == "" {
		return httpclient.NewDefaultClient(0)
	}
	return httpclient.NewDefaultClient(0,
		httpclient.WithHeader("apikey", apiKey),
		httpclient.WithHeader("Authorization", "Bearer "+apiKey),
	)
}

// Validate validates the API source configuration
func (*apiSourceHandler) Validate(source *config.SourceConfig) error {
	if source == nil {
		return fmt.Errorf("source configuration cannot be nil")
	}
	if source.API == nil {
		return fmt.Errorf("api configuration is required for source type %s", config.SourceTypeAPI)
	}
	if source.API.Endpoint == "" {
		return fmt.Errorf("api endpoint cannot be empty")
	}
	if _, err := url.Parse(source.API.Endpoint); err != nil {
		return fmt.Errorf("invalid api endpoint: %w", err)
	}
	return nil
}

// FetchCatalog pages through the endpoint and returns every record
func (h *apiSourceHandler) FetchCatalog(ctx context.Context, source *config.SourceConfig) (*FetchResult, error) {
	if err := h.Validate(source); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}
	api := source.API

	apiKey, err := api.GetAPIKey()
	if err != nil {
		return nil, err
	}
	client := h.newClient(apiKey)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if api.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(api.RequestsPerSecond), 1)
	}

	pageSize := api.GetPageSize()
	var items []catalog.Item

	for page := 0; page < maxAPIPages; page++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		u, err := pageURL(api.Endpoint, pageSize, page*pageSize)
		if err != nil {
			return nil, err
		}

		data, err := client.Get(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		batch, err := DecodeData(data, FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		items = append(items, batch...)

		slog.Debug("Fetched catalog page", "page", page, "page_items", len(batch), "item_count", len(items))

		if len(batch) < pageSize {
			hash, err := hashItems(items)
			if err != nil {
				return nil, err
			}
			return NewFetchResult(items, hash, FormatJSON), nil
		}
	}

	return nil, fmt.Errorf("endpoint returned more than %d pages", maxAPIPages)
}

// CurrentHash fetches the whole collection; PostgREST offers no cheaper digest
func (h *apiSourceHandler) CurrentHash(ctx context.Context, source *config.SourceConfig) (string, error) {
	result, err := h.FetchCatalog(ctx, source)
	if err != nil {
		return "", err
	}
	return result.Hash, nil
}

// pageURL appends limit and offset to the endpoint, keeping any existing query
func pageURL(endpoint string, limit, offset int) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid api endpoint: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
