package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type Client struct {
	client  *bedrockruntime.Client
	modelID string
}

func NewClient(ctx context.Context, region string, modelID string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	bedrockClient := bedrockruntime.NewFromConfig(cfg)

	return &Client{
		client:  bedrockClient,
		modelID: modelID,
	}, nil
}

// Runtime exposes the underlying SDK client so the Titan embedder can share
// one AWS configuration.
func (c *Client) Runtime() *bedrockruntime.Client {
	return c.client
}
