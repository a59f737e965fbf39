package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlbdotgo/vlbgo/filter"
	"github.com/vlbdotgo/vlbgo/vlb"
)

var (
	// Command flags
	useTemplate bool
	pageSize    int
	startPage   int
	status      string
	direction   string
	sortField   string
	source      string
	longFormat  bool
	fetchAll    bool
	maxPages    int
	whereExpr   string
	preset      string
	jsonOutput  bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY [ARG...]",
	Short: "Search the VLB catalog",
	Long: `Search the VLB catalog and print the matching products.

With --template the first argument is a query template and the remaining
arguments fill its {} placeholders, e.g.

  vlbgo search -t 'ti={} and au={}' 'Der Process' Kafka

Results can be narrowed locally with --where or a --preset from the config.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVarP(&useTemplate, "template", "t", false, "treat QUERY as a template filled by ARG")
	searchCmd.Flags().IntVar(&pageSize, "size", 0, "products per page (default from config)")
	searchCmd.Flags().IntVar(&startPage, "page", 1, "page to start from")
	searchCmd.Flags().StringVar(&status, "status", "", "product status (active/inactive)")
	searchCmd.Flags().StringVar(&direction, "direction", "", "sort direction (asc/desc)")
	searchCmd.Flags().StringVar(&sortField, "sort", "", "sort field")
	searchCmd.Flags().StringVar(&source, "source", "", "data source")
	searchCmd.Flags().BoolVar(&longFormat, "long", false, "request the long product representation")
	searchCmd.Flags().BoolVar(&fetchAll, "all", false, "fetch every page")
	searchCmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after N pages when --all is set (0 = no limit)")
	searchCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "filter expression applied to the results")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	query, err := queryFromArgs(args)
	if err != nil {
		return err
	}

	req := searchRequest(query, responseFormat(cmd))

	logger.Info().
		Str("query", req.Query).
		Int("page", req.Page).
		Int("size", req.Size).
		Msg("Searching VLB")

	var products []vlb.Product
	var footer string
	if fetchAll {
		products, err = client.SearchAll(ctx, req, maxPages)
		if err != nil {
			return err
		}
	} else {
		session, err := client.Search(ctx, req)
		if err != nil {
			return err
		}
		products = session.Items()
		footer = fmt.Sprintf("Page %d of %d (%d products in total)",
			session.Page(), session.TotalPages(), session.TotalElements())
	}

	products, err = applyFilter(ctx, products)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(products)
	}

	if len(products) == 0 {
		fmt.Println("No products found matching the query.")
		return nil
	}

	fmt.Printf("\nFound %d products:\n", len(products))
	fmt.Println(strings.Repeat("-", 80))
	for i := range products {
		printProduct(&products[i])
	}

	if footer != "" {
		fmt.Println(strings.Repeat("-", 80))
		fmt.Println(footer)
	}

	return nil
}

// queryFromArgs returns the raw query or the query built from a template
func queryFromArgs(args []string) (string, error) {
	if useTemplate {
		return vlb.BuildQuery(args[0], args[1:]...)
	}
	if len(args) > 1 {
		return "", fmt.Errorf("search takes a single QUERY unless --template is set")
	}
	return args[0], nil
}

// responseFormat picks the product representation. An explicit --long flag,
// including --long=false, wins over search.long_format.
func responseFormat(cmd *cobra.Command) vlb.Format {
	long := cfg.Search.LongFormat
	if cmd.Flags().Changed("long") {
		long = longFormat
	}
	if long {
		return vlb.FormatLong
	}
	return vlb.FormatShort
}

// searchRequest combines the flags with the configured search defaults
func searchRequest(query string, format vlb.Format) vlb.SearchRequest {
	req := vlb.SearchRequest{
		Query:     query,
		Status:    vlb.Status(cfg.Search.Status),
		Direction: vlb.Direction(cfg.Search.Direction),
		Sort:      sortField,
		Source:    source,
		Size:      cfg.Search.PageSize,
		Page:      startPage,
		Format:    format,
	}

	if status != "" {
		req.Status = vlb.Status(status)
	}
	if direction != "" {
		req.Direction = vlb.Direction(direction)
	}
	if pageSize != 0 {
		req.Size = pageSize
	}
	return req
}

// applyFilter narrows products with the selected filter expression, if any
func applyFilter(ctx context.Context, products []vlb.Product) ([]vlb.Product, error) {
	expr, err := getFilterExpression()
	if err != nil {
		return nil, err
	}
	if expr == "" {
		return products, nil
	}

	logger.Debug().Str("filter", expr).Msg("Filtering products")

	f, err := filter.ParseAndCreateFilter(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	return filter.Apply(ctx, f, products)
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset > default
	if whereExpr != "" {
		return whereExpr, nil
	}

	if preset != "" {
		if expression, ok := cfg.Filter.Presets[preset]; ok {
			return expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return cfg.Filter.DefaultExpression, nil
}

func printProduct(p *vlb.Product) {
	fmt.Printf("• %s", p.DisplayTitle())
	if id := p.Identifier(); id != "" {
		fmt.Printf(" [%s]", id)
	}
	fmt.Println()
	if p.Author != "" {
		fmt.Printf("  Author: %s\n", p.Author)
	}
	if p.Publisher != "" {
		fmt.Printf("  Publisher: %s\n", p.Publisher)
	}
	if p.PublicationDate != "" {
		fmt.Printf("  Published: %s\n", p.PublicationDate)
	}
}
