package filter

import (
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/s0up4200/bucketeer/bitbucket"
)

// DefaultCacheSize is the number of compiled expressions kept by NewManager
const DefaultCacheSize = 100

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// NewExprCompiler creates a new expr-based filter compiler. Expressions are
// type checked against the repository environment, so unknown variables and
// non-boolean results are compile errors.
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	cache *lruCache[CompiledFilter]
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
		expr.Env(newEnvironment(bitbucket.Repository{})),
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

// Evaluate evaluates the filter against a repository
func (f *exprFilter) Evaluate(repo bitbucket.Repository) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(repo))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Repository: repo.FullName(),
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// newEnvironment exposes a repository to expressions. Besides the full
// value as Repo, the common fields are available directly:
//
//	Slug, Name, Description, State, ScmID
//	Project (key), ProjectName, Personal
//	Public, Archived, Forkable
//
// The expr builtins (lower, upper, hasPrefix, matches, ...) are available as
// usual; the helpers below cover repository specific checks.
func newEnvironment(repo bitbucket.Repository) map[string]any {
	projectKey := repo.Project.Key

	return map[string]any{
		"Repo":        repo,
		"Slug":        repo.Slug,
		"Name":        repo.Name,
		"Description": repo.Description,
		"State":       repo.State,
		"ScmID":       repo.ScmID,
		"Project":     projectKey,
		"ProjectName": repo.Project.Name,
		"Personal":    strings.HasPrefix(projectKey, "~"),
		"Public":      repo.Public,
		"Archived":    repo.Archived,
		"Forkable":    repo.Forkable,

		"inProject": func(keys ...string) bool {
			return slices.ContainsFunc(keys, func(k string) bool {
				return strings.EqualFold(k, projectKey)
			})
		},
		"containsFold": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"cloneURL": repo.Links.CloneURL,
	}
}
