package filter

import (
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vlbdotgo/vlbgo/vlb"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // product fields vary between short and long form
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a product
func (f *exprFilter) Evaluate(product vlb.Product) (bool, error) {
	env, err := createRuntimeEnvironment(product, f.helpers)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			ProductID:  product.Identifier(),
			Reason:     "failed to decode product",
			Err:        err,
		}
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			ProductID:  product.Identifier(),
			Reason:     "failed to run expression",
			Err:        err,
		}
	}

	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	return map[string]any{
		// contains, startsWith and endsWith are operators in expr
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"istartsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"iendsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"year":  parseYear,
		"now":   time.Now,
		// bound to the product at evaluation time
		"has": func(field string) bool { return false },
	}
}

// parseYear returns the year of a VLB date (YYYY, YYYY-MM or YYYY-MM-DD), or 0
func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// createRuntimeEnvironment exposes every field of the product document plus
// the decoded fields and helpers
func createRuntimeEnvironment(product vlb.Product, helpers map[string]any) (map[string]any, error) {
	fields, err := product.Fields()
	if err != nil {
		return nil, err
	}

	env := make(map[string]any, len(fields)+len(helpers)+16)
	maps.Copy(env, fields)

	env["Product"] = fields
	env["ID"] = product.ID
	env["Title"] = product.Title
	env["Subtitle"] = product.Subtitle
	env["Author"] = product.Author
	env["Publisher"] = product.Publisher
	env["ISBN"] = product.ISBN
	env["GTIN"] = product.GTIN
	env["ProductType"] = product.ProductType
	env["PublicationDate"] = product.PublicationDate
	env["Year"] = parseYear(product.PublicationDate)

	// Helpers shadow document fields of the same name
	maps.Copy(env, helpers)

	env["has"] = func(field string) bool {
		v, ok := fields[field]
		return ok && v != nil
	}

	return env, nil
}
