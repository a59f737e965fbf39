package vlb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxPageSize is the largest page VLB serves
const MaxPageSize = 250

var validate = validator.New()

// SearchRequest holds the parameters of a product search. Page is the only
// field a SearchSession changes.
type SearchRequest struct {
	Query     string    `validate:"required"`
	Status    Status    `validate:"oneof=active inactive"`
	Direction Direction `validate:"oneof=asc desc"`
	Sort      string
	Source    string
	Size      int    `validate:"min=1,max=250"`
	Page      int    `validate:"min=1"`
	Format    Format `validate:"oneof=0 1"`
}

// withDefaults fills unset fields with VLB's defaults
func (r SearchRequest) withDefaults() SearchRequest {
	if r.Status == "" {
		r.Status = StatusActive
	}
	if r.Direction == "" {
		r.Direction = DirectionDesc
	}
	if r.Size == 0 {
		r.Size = MaxPageSize
	}
	if r.Page == 0 {
		r.Page = 1
	}
	return r
}

// Validate checks the request and reports the first invalid field
func (r SearchRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			return argumentError("search", "invalid %s %q: must satisfy %s",
				strings.ToLower(fe.Field()), fmt.Sprint(fe.Value()), rule)
		}
		return &Error{Kind: KindArgument, Op: "search", Message: "invalid search request", Err: err}
	}
	return nil
}

// params encodes the request for the products endpoint at the given page
func (r SearchRequest) params(page int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(r.Size))
	params.Set("search", r.Query)
	params.Set("status", string(r.Status))
	params.Set("direction", string(r.Direction))
	if r.Sort != "" {
		params.Set("sort", r.Sort)
	}
	if r.Source != "" {
		params.Set("source", r.Source)
	}
	return params
}

// SearchSession holds the current page of a paginated product search.
type SearchSession struct {
	client        *Client
	req           SearchRequest
	page          int
	totalPages    int
	totalElements int
	items         []Product
}

// Search runs a product search and returns a session positioned on the
// request's start page
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchSession, error) {
	req = req.withDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s := &SearchSession{client: c, req: req}
	if err := s.fetch(ctx, req.Page); err != nil {
		return nil, err
	}
	return s, nil
}

// Next advances the session by one page. Past the last page it returns an
// ExhaustedError without sending a request; on any error the session keeps
// its current page.
func (s *SearchSession) Next(ctx context.Context) error {
	next := s.page + 1
	if next > s.totalPages {
		return &Error{
			Kind:    KindExhausted,
			Op:      "search",
			Message: fmt.Sprintf("maximum page number of the current search is %d", s.totalPages),
		}
	}
	return s.fetch(ctx, next)
}

// fetch loads page and replaces the session state on success
func (s *SearchSession) fetch(ctx context.Context, page int) error {
	var resp searchResponse
	if err := s.client.getJSON(ctx, "search", "/products", s.req.params(page), s.req.Format, &resp); err != nil {
		return err
	}
	if resp.TotalPages == nil {
		return &Error{Kind: KindAPI, Op: "search", Message: "response is missing totalPages"}
	}

	items := resp.Content
	if items == nil {
		items = []Product{}
	}

	s.page = page
	s.totalPages = *resp.TotalPages
	s.totalElements = resp.TotalElements
	s.items = items

	s.client.logger.Debug().
		Int("page", page).
		Int("total_pages", s.totalPages).
		Int("count", len(items)).
		Msg("Retrieved search page from VLB")

	return nil
}

// Items returns the products of the current page. It is never nil.
func (s *SearchSession) Items() []Product {
	return s.items
}

// Page returns the current page number
func (s *SearchSession) Page() int {
	return s.page
}

// TotalPages returns the page count reported by the last response
func (s *SearchSession) TotalPages() int {
	return s.totalPages
}

// TotalElements returns the hit count reported by the last response, or 0
// if VLB omitted it
func (s *SearchSession) TotalElements() int {
	return s.totalElements
}

// HasNext checks if there are more pages to fetch
func (s *SearchSession) HasNext() bool {
	return s.page < s.totalPages
}

// Request returns the request the session was created with, positioned on
// the current page
func (s *SearchSession) Request() SearchRequest {
	req := s.req
	req.Page = s.page
	return req
}

// SearchAll walks the search from its start page and collects every product.
// maxPages <= 0 fetches all pages.
func (c *Client) SearchAll(ctx context.Context, req SearchRequest, maxPages int) ([]Product, error) {
	session, err := c.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	all := append([]Product{}, session.Items()...)
	fetched := 1

	for session.HasNext() && (maxPages <= 0 || fetched < maxPages) {
		if err := session.Next(ctx); err != nil {
			return nil, err
		}
		all = append(all, session.Items()...)
		fetched++
	}

	c.logger.Debug().
		Int("pages", fetched).
		Int("total", len(all)).
		Msg("Retrieved search results from VLB")

	return all, nil
}
