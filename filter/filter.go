// Package filter narrows VLB search results with expr-lang expressions.
//
// An expression sees every top-level field of the product document (short or
// long form) plus the decoded fields Title, Subtitle, Author, Publisher, ISBN,
// GTIN, ID, ProductType, PublicationDate and Year:
//
//	Year >= 2020 and icontains(Publisher, "suhrkamp")
//	has("coverUrl") and not istartsWith(Title, "Der")
//
// The i-prefixed helpers ignore case. expr's own contains, startsWith and
// endsWith operators are case-sensitive: Title startsWith "Der".
package filter

import (
	"context"

	"github.com/vlbdotgo/vlbgo/vlb"
)

var defaultCompiler = NewExprCompiler(WithCache(64))

// ParseAndCreateFilter compiles expression with the shared caching compiler
func ParseAndCreateFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// sequentialEvaluator evaluates products in order
type sequentialEvaluator struct{}

// NewEvaluator returns an Evaluator that stops at the first evaluation error
func NewEvaluator() Evaluator {
	return sequentialEvaluator{}
}

// Apply returns the products matching filter, in their original order
func (sequentialEvaluator) Apply(ctx context.Context, filter Filter, products []vlb.Product) ([]vlb.Product, error) {
	matches := make([]vlb.Product, 0, len(products))
	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := filter.Evaluate(product)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

// Apply filters products with the default evaluator
func Apply(ctx context.Context, filter Filter, products []vlb.Product) ([]vlb.Product, error) {
	return NewEvaluator().Apply(ctx, filter, products)
}
