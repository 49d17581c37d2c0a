package api

import (
	"context"
	"net/http"

	"github.com/RealAndrewRen/postul/internal/domain"
)

// Health reports service liveness.
func (c *Client) Health(ctx context.Context) (*domain.Health, error) {
	var health domain.Health
	if err := c.do(ctx, c.http, "health", http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
