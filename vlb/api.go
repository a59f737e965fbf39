package vlb

import (
	"context"
)

// API defines the interface for VLB operations
type API interface {
	// Search runs a product search and returns its first page
	Search(ctx context.Context, req SearchRequest) (*SearchSession, error)

	// SearchAll collects the products of up to maxPages search pages
	SearchAll(ctx context.Context, req SearchRequest, maxPages int) ([]Product, error)

	// GetProduct fetches a product by identifier
	GetProduct(ctx context.Context, id string, opts ProductOptions) (*Product, error)

	// GetProducts fetches several products concurrently
	GetProducts(ctx context.Context, ids []string, opts ProductOptions) ([]*Product, error)

	GetCover(ctx context.Context, id string, size CoverSize) (*Cover, error)
	GetMedia(ctx context.Context, id string, mediaType MediaType) ([]MediaFile, error)
	SearchIndex(ctx context.Context, field IndexField, value string) ([]IndexEntry, error)
	GetPublisher(ctx context.Context, mvbid string) (*Publisher, error)
}

var _ API = (*Client)(nil)
