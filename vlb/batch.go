package vlb

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// GetProducts fetches several products concurrently. Results are in the order
// of ids. The first failure cancels the remaining lookups and is returned.
func (c *Client) GetProducts(ctx context.Context, ids []string, opts ProductOptions) ([]*Product, error) {
	if len(ids) == 0 {
		return []*Product{}, nil
	}
	if !opts.IDType.Valid() {
		return nil, argumentError("product", "invalid id type %q (must be gtin, isbn13 or ean)", opts.IDType)
	}
	if !opts.Format.Valid() {
		return nil, argumentError("product", "invalid format %d", int(opts.Format))
	}

	products := make([]*Product, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, id := range ids {
		i, id := i, id // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			product, err := c.GetProduct(ctx, id, opts)
			if err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
			// Each goroutine owns its index
			products[i] = product
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("count", len(products)).
		Int("concurrency", c.concurrency).
		Msg("Retrieved products from VLB")

	return products, nil
}
