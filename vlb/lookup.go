package vlb

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ProductOptions qualifies a product lookup.
type ProductOptions struct {
	IDType IDType
	Format Format
}

// GetProduct fetches a single product by its identifier
func (c *Client) GetProduct(ctx context.Context, id string, opts ProductOptions) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, argumentError("product", "product id is required")
	}
	if !opts.IDType.Valid() {
		return nil, argumentError("product", "invalid id type %q (must be gtin, isbn13 or ean)", opts.IDType)
	}
	if !opts.Format.Valid() {
		return nil, argumentError("product", "invalid format %d", int(opts.Format))
	}

	endpoint := "/product/" + url.PathEscape(id)
	if opts.IDType != IDTypeNone {
		endpoint += "/" + string(opts.IDType)
	}

	var product Product
	if err := c.getJSON(ctx, "product", endpoint, nil, opts.Format, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCover fetches the cover image of a product
func (c *Client) GetCover(ctx context.Context, id string, size CoverSize) (*Cover, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, argumentError("cover", "product id is required")
	}
	if !size.Valid() {
		return nil, argumentError("cover", "invalid cover size %q (must be s, m or l)", size)
	}

	endpoint := "/cover/" + url.PathEscape(id) + "/" + string(size)
	resp, err := c.doRequest(ctx, "cover", http.MethodGet, endpoint, nil, nil, "image/*")
	if err != nil {
		return nil, err
	}

	// VLB answers some failures with a JSON descriptor instead of an image
	if strings.HasPrefix(resp.contentType, "application/json") {
		if err := checkEmbeddedError("cover", resp.body); err != nil {
			return nil, err
		}
		return nil, &Error{Kind: KindAPI, Op: "cover", Message: "expected an image but got " + resp.contentType}
	}
	if len(resp.body) == 0 {
		return nil, &Error{Kind: KindAPI, Op: "cover", Message: "empty cover image"}
	}

	c.logger.Debug().
		Str("id", id).
		Str("size", string(size)).
		Int("bytes", len(resp.body)).
		Msg("Retrieved cover from VLB")

	return &Cover{Data: resp.body, ContentType: resp.contentType}, nil
}

// GetMedia lists the media files attached to a product
func (c *Client) GetMedia(ctx context.Context, id string, mediaType MediaType) ([]MediaFile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, argumentError("media", "product id is required")
	}
	if !mediaType.Valid() {
		return nil, argumentError("media", "invalid media type %q", mediaType)
	}

	var params url.Values
	if mediaType != MediaAll {
		params = url.Values{"type": {string(mediaType)}}
	}

	var files []MediaFile
	endpoint := "/product/" + url.PathEscape(id) + "/mediafiles"
	if err := c.getJSON(ctx, "media", endpoint, params, FormatLong, &files); err != nil {
		return nil, err
	}
	if files == nil {
		files = []MediaFile{}
	}
	return files, nil
}

// SearchIndex looks value up in one of the VLB indexes
func (c *Client) SearchIndex(ctx context.Context, field IndexField, value string) ([]IndexEntry, error) {
	if !field.Valid() {
		return nil, argumentError("index", "invalid index field %q", field)
	}
	if strings.TrimSpace(value) == "" {
		return nil, argumentError("index", "index value is required")
	}

	params := url.Values{
		"field": {string(field)},
		"value": {value},
	}

	var entries []IndexEntry
	if err := c.getJSON(ctx, "index", "/index", params, FormatLong, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []IndexEntry{}
	}
	return entries, nil
}

// GetPublisher fetches a publisher by its mvbid
func (c *Client) GetPublisher(ctx context.Context, mvbid string) (*Publisher, error) {
	mvbid = strings.TrimSpace(mvbid)
	if mvbid == "" {
		return nil, argumentError("publisher", "mvbid is required")
	}

	var publisher Publisher
	if err := c.getJSON(ctx, "publisher", "/publisher/"+url.PathEscape(mvbid), nil, FormatLong, &publisher); err != nil {
		return nil, err
	}
	return &publisher, nil
}
