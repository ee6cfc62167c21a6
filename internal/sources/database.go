package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/config"
	"github.com/popguide/catalog-server/internal/db"
)

// Querier is the subset of a pgx pool used by the database source
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PoolOpener connects to the configured database. The returned func releases it.
type PoolOpener func(ctx context.Context, cfg *config.DatabaseConfig) (Querier, func(), error)

func openPool(ctx context.Context, cfg *config.DatabaseConfig) (Querier, func(), error) {
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Close, nil
}

// catalogColumns are selected from the catalog table in this order
var catalogColumns = []string{
	"id::text AS id", "name", "series", "number", "fandom", "genre", "edition", "category", "status",
	"is_vaulted", "is_exclusive", "is_chase", "exclusive_to", "release_date", "created_at",
	"data_sources", "estimated_value::float8 AS estimated_value",
	"upc_a", "country_of_registration", "brand", "model_number", "size", "color", "weight",
	"product_dimensions", "variant", "description",
}

// itemRow mirrors a catalog table row; nullable columns are pointers
type itemRow struct {
	ID                    string     `db:"id"`
	Name                  *string    `db:"name"`
	Series                *string    `db:"series"`
	Number                *string    `db:"number"`
	Fandom                *string    `db:"fandom"`
	Genre                 *string    `db:"genre"`
	Edition               *string    `db:"edition"`
	Category              *string    `db:"category"`
	Status                *string    `db:"status"`
	IsVaulted             *bool      `db:"is_vaulted"`
	IsExclusive           *bool      `db:"is_exclusive"`
	IsChase               *bool      `db:"is_chase"`
	ExclusiveTo           *string    `db:"exclusive_to"`
	ReleaseDate           *time.Time `db:"release_date"`
	CreatedAt             *time.Time `db:"created_at"`
	DataSources           []string   `db:"data_sources"`
	EstimatedValue        *float64   `db:"estimated_value"`
	UPCA                  *string    `db:"upc_a"`
	CountryOfRegistration *string    `db:"country_of_registration"`
	Brand                 *string    `db:"brand"`
	ModelNumber           *string    `db:"model_number"`
	Size                  *string    `db:"size"`
	Color                 *string    `db:"color"`
	Weight                *string    `db:"weight"`
	ProductDimensions     *string    `db:"product_dimensions"`
	Variant               *string    `db:"variant"`
	Description           *string    `db:"description"`
}

func (r itemRow) item() catalog.Item {
	it := catalog.Item{
		ID:                    r.ID,
		Name:                  deref(r.Name),
		Series:                deref(r.Series),
		Number:                deref(r.Number),
		Fandom:                deref(r.Fandom),
		Genre:                 deref(r.Genre),
		Edition:               deref(r.Edition),
		Category:              deref(r.Category),
		RawStatus:             deref(r.Status),
		IsVaulted:             r.IsVaulted != nil && *r.IsVaulted,
		IsExclusive:           r.IsExclusive != nil && *r.IsExclusive,
		IsChase:               r.IsChase != nil && *r.IsChase,
		ExclusiveTo:           deref(r.ExclusiveTo),
		ReleaseDate:           r.ReleaseDate,
		DataSources:           r.DataSources,
		EstimatedValue:        r.EstimatedValue,
		UPCA:                  deref(r.UPCA),
		CountryOfRegistration: deref(r.CountryOfRegistration),
		Brand:                 deref(r.Brand),
		ModelNumber:           deref(r.ModelNumber),
		Size:                  deref(r.Size),
		Color:                 deref(r.Color),
		Weight:                deref(r.Weight),
		ProductDimensions:     deref(r.ProductDimensions),
		Variant:               deref(r.Variant),
		Description:           deref(r.Description),
	}
	if r.CreatedAt != nil {
		it.CreatedAt = r.CreatedAt.UTC()
	}
	return it
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// databaseSourceHandler reads the catalog table from PostgreSQL
type databaseSourceHandler struct {
	open PoolOpener
}

// NewDatabaseSourceHandler creates a database source handler.
// A nil opener connects with a pgx pool built from the configuration.
func NewDatabaseSourceHandler(open PoolOpener) SourceHandler {
	if open == nil {
		open = openPool
	}
	return &databaseSourceHandler{open: open}
}

// Validate validates the database source configuration
func (*databaseSourceHandler) Validate(source *config.SourceConfig) error {
	if source == nil {
		return fmt.Errorf("source configuration cannot be nil")
	}
	if source.Database == nil {
		return fmt.Errorf("database configuration is required for source type %s", config.SourceTypeDatabase)
	}
	if source.Database.Host == "" || source.Database.Database == "" {
		return fmt.Errorf("database host and name are required")
	}
	return nil
}

// FetchCatalog selects every catalog row, newest first
func (h *databaseSourceHandler) FetchCatalog(ctx context.Context, source *config.SourceConfig) (*FetchResult, error) {
	if err := h.Validate(source); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	q, release, err := h.open(ctx, source.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	defer release()

	rows, err := q.Query(ctx, selectCatalogSQL(source.Database.GetTable()))
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog table: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[itemRow])
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog rows: %w", err)
	}

	items := make([]catalog.Item, len(records))
	for i, r := range records {
		items[i] = r.item()
	}

	hash, err := hashItems(items)
	if err != nil {
		return nil, err
	}

	slog.Debug("Read catalog table", "table", source.Database.GetTable(), "item_count", len(items))
	return NewFetchResult(items, hash, FormatDatabase), nil
}

// CurrentHash reads the table and hashes its contents
func (h *databaseSourceHandler) CurrentHash(ctx context.Context, source *config.SourceConfig) (string, error) {
	result, err := h.FetchCatalog(ctx, source)
	if err != nil {
		return "", err
	}
	return result.Hash, nil
}

// selectCatalogSQL builds the catalog query. The table name is validated by
// config and additionally quoted here.
func selectCatalogSQL(table string) string {
	ident := pgx.Identifier(strings.Split(table, "."))
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC, id",
		strings.Join(catalogColumns, ", "), ident.Sanitize())
}
