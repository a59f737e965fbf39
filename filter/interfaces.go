package filter

import (
	"context"

	"github.com/vlbdotgo/vlbgo/vlb"
)

// Filter defines the basic interface for product filters
type Filter interface {
	// Evaluate checks if a product matches the filter criteria
	Evaluate(product vlb.Product) (bool, error)
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Evaluator evaluates filters against search results
type Evaluator interface {
	Apply(ctx context.Context, filter Filter, products []vlb.Product) ([]vlb.Product, error)
}
