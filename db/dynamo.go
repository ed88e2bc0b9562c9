package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoConfig holds the settings of the DynamoDB slot table
type DynamoConfig struct {
	Region string
	Table  string
	// Endpoint overrides the AWS endpoint, e.g. http://localhost:8000 for DynamoDB Local
	Endpoint string
}

// OpenDynamo builds a DynamoDB client from the default AWS credential chain
func OpenDynamo(ctx context.Context, cfg DynamoConfig) (*dynamodb.Client, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("DYNAMODB_TABLE_NAME environment variable not set")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
