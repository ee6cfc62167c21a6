// Package auth resolves short-lived database credentials for the catalog source.
package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/popguide/catalog-server/internal/config"
)

// NewToken returns a dynamic authentication token for user, or "" when
// dynamic authentication is not configured. The token is used as a password
// by one-shot connections such as migrations.
func NewToken(ctx context.Context, cfg *config.DatabaseConfig, user string) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("database configuration is required")
	}
	if cfg.DynamicAuth == nil {
		return "", nil
	}
	if cfg.DynamicAuth.AWSRDSIAM != nil {
		region, err := awsRegion(ctx, cfg)
		if err != nil {
			return "", err
		}
		return awsToken(ctx, cfg, region, user)
	}
	return "", fmt.Errorf("dynamic auth is configured but no supported auth method (e.g., awsRdsIam) is specified")
}

// NewBeforeConnect returns a pgx hook that sets a fresh token on every new
// pool connection
func NewBeforeConnect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) (func(context.Context, *pgx.ConnConfig) error, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration is required")
	}
	if cfg.DynamicAuth == nil {
		return nil, fmt.Errorf("dynamic authentication is not configured")
	}
	if cfg.DynamicAuth.AWSRDSIAM != nil {
		return awsBeforeConnect(ctx, cfg, cfg.User)
	}
	return nil, fmt.Errorf("dynamic auth is configured but no supported auth method (e.g., awsRdsIam) is specified")
}
