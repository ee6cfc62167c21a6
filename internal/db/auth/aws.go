package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	rdsauth "github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/jackc/pgx/v5"

	"github.com/popguide/catalog-server/internal/config"
)

const imdsTimeout = 2 * time.Second

// awsRegion resolves the configured region, asking IMDS when it is "detect"
func awsRegion(ctx context.Context, cfg *config.DatabaseConfig) (string, error) {
	region := cfg.DynamicAuth.AWSRDSIAM.Region
	if region == "" {
		return "", fmt.Errorf("AWS RDS IAM region is not configured")
	}
	if region != config.AWSRegionDetect {
		return region, nil
	}

	client := imds.New(imds.Options{
		HTTPClient: &http.Client{Timeout: imdsTimeout},
	})
	out, err := client.GetRegion(ctx, &imds.GetRegionInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get region from IMDS: %w", err)
	}
	slog.Debug("Detected AWS region from instance metadata", "region", out.Region)
	return out.Region, nil
}

// awsToken builds an RDS IAM token for user with the default credential chain
func awsToken(ctx context.Context, cfg *config.DatabaseConfig, region, user string) (string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return "", fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	token, err := rdsauth.BuildAuthToken(ctx, endpoint, region, user, awsCfg.Credentials)
	if err != nil {
		return "", fmt.Errorf("failed to build authentication token: %w", err)
	}
	return token, nil
}

func awsBeforeConnect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
	user string,
) (func(context.Context, *pgx.ConnConfig) error, error) {
	region, err := awsRegion(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, connConfig *pgx.ConnConfig) error {
		token, err := awsToken(ctx, cfg, region, user)
		if err != nil {
			return err
		}
		connConfig.Password = token
		return nil
	}, nil
}
