package filter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/s0up4200/bucketeer/bitbucket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo() bitbucket.Repository {
	return bitbucket.Repository{
		ID:          7,
		Slug:        "payments-api",
		Name:        "Payments API",
		Description: "Handles card payments",
		ScmID:       "git",
		State:       "AVAILABLE",
		Forkable:    true,
		Project: bitbucket.Project{
			ProjectDefinition: bitbucket.ProjectDefinition{Key: "PAY", Name: "Payments"},
		},
		Links: bitbucket.Links{
			Clone: []bitbucket.Link{{Name: "http", Href: "https://bb.example.com/scm/pay/payments-api.git"}},
		},
	}
}

func TestCompile(t *testing.T) {
	compiler := NewExprCompiler()

	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "valid expression", expression: `Project == "PAY"`},
		{name: "helpers", expression: `inProject("PAY", "OPS") and containsFold(Name, "api")`},
		{name: "builtins", expression: `hasPrefix(lower(Slug), "pay")`},
		{name: "empty expression", expression: "  ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `Slug == "unclosed`, wantErr: true},
		{name: "unknown variable", expression: `Stars > 10`, wantErr: true},
		{name: "non-boolean result", expression: `Slug`, wantErr: true},
		{name: "type mismatch", expression: `Archived > 3`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, filter.Expression())
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	compiler := NewExprCompiler()
	repo := testRepo()

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{name: "project key", expression: `Project == "PAY"`, expected: true},
		{name: "project name", expression: `ProjectName == "Payments"`, expected: true},
		{name: "in project", expression: `inProject("ops", "pay")`, expected: true},
		{name: "not in project", expression: `inProject("OPS")`, expected: false},
		{name: "archived", expression: `Archived`, expected: false},
		{name: "not archived and forkable", expression: `not Archived and Forkable`, expected: true},
		{name: "personal", expression: `Personal`, expected: false},
		{name: "contains fold", expression: `containsFold(Description, "CARD")`, expected: true},
		{name: "matches", expression: `Slug matches "^pay.*-api$"`, expected: true},
		{name: "full value", expression: `Repo.ID == 7 and Repo.ScmID == "git"`, expected: true},
		{name: "clone url", expression: `cloneURL("http") endsWith ".git"`, expected: true},
		{name: "missing clone url", expression: `cloneURL("ssh") == ""`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			require.NoError(t, err)

			got, err := filter.Evaluate(repo)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got, "expression %q", tt.expression)
		})
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Public`)
	require.NoError(t, err)
	again, err := compiler.Compile(`  Public `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`Archived`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Forkable`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	// Public was evicted
	recompiled, err := compiler.Compile(`Public`)
	require.NoError(t, err)
	assert.NotSame(t, first, recompiled)

	compiler.Clear()
	assert.Zero(t, compiler.Size())
}

func TestLRUCache(t *testing.T) {
	cache := newLRUCache[int](2)
	cache.Put("a", 1)
	cache.Put("b", 2)

	// touch a so b becomes the oldest
	v, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	cache.Put("c", 3)
	_, ok = cache.Get("b")
	assert.False(t, ok)

	cache.Put("a", 10)
	v, _ = cache.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, cache.Size())
}

func TestEvaluator(t *testing.T) {
	repos := make([]bitbucket.Repository, 250)
	for i := range repos {
		repos[i] = bitbucket.Repository{
			ID:       i,
			Slug:     fmt.Sprintf("repo-%03d", i),
			Archived: i%5 == 0,
		}
	}

	filter, err := NewExprCompiler().Compile(`Archived`)
	require.NoError(t, err)

	tests := []struct {
		name      string
		evaluator *Evaluator
	}{
		{name: "sequential", evaluator: NewEvaluator(WithBatchSize(1000))},
		{name: "concurrent", evaluator: NewEvaluator(WithWorkers(4), WithBatchSize(10))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := tt.evaluator.Evaluate(context.Background(), filter, repos)
			require.NoError(t, err)
			require.Len(t, matches, 50)
			for i, repo := range matches {
				assert.Equal(t, i*5, repo.ID, "matches keep input order")
			}
		})
	}

	t.Run("empty input", func(t *testing.T) {
		matches, err := NewEvaluator().Evaluate(context.Background(), filter, nil)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewEvaluator(WithWorkers(2), WithBatchSize(10)).Evaluate(ctx, filter, repos)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type failingFilter struct{}

func (failingFilter) Evaluate(repo bitbucket.Repository) (bool, error) {
	return false, &EvaluationError{Expression: "boom", Repository: repo.FullName(), Err: errors.New("boom")}
}

func (failingFilter) Expression() string { return "boom" }

func TestEvaluator_Error(t *testing.T) {
	repos := []bitbucket.Repository{testRepo()}

	_, err := NewEvaluator().Evaluate(context.Background(), failingFilter{}, repos)
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "PAY/payments-api", evalErr.Repository)
}

func TestManager(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.RegisterPresets(map[string]string{
		"payments": `Project == "PAY"`,
		"active":   `not Archived`,
	}))
	assert.Equal(t, []string{"active", "payments"}, m.Presets())

	t.Run("invalid preset registers nothing", func(t *testing.T) {
		err := m.RegisterPresets(map[string]string{"ok": `Public`, "broken": `Public ==`})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
		_, exists := m.Preset("ok")
		assert.False(t, exists)
	})

	repos := []bitbucket.Repository{
		testRepo(),
		{Slug: "old", Archived: true, Project: bitbucket.Project{ProjectDefinition: bitbucket.ProjectDefinition{Key: "PAY"}}},
		{Slug: "ops", Project: bitbucket.Project{ProjectDefinition: bitbucket.ProjectDefinition{Key: "OPS"}}},
	}

	tests := []struct {
		name       string
		preset     string
		expression string
		wantSlugs  []string
		wantNil    bool
	}{
		{name: "nothing set", wantNil: true, wantSlugs: []string{"payments-api", "old", "ops"}},
		{name: "preset only", preset: "payments", wantSlugs: []string{"payments-api", "old"}},
		{name: "expression only", expression: `Project == "OPS"`, wantSlugs: []string{"ops"}},
		{name: "preset and expression", preset: "payments", expression: `not Archived`, wantSlugs: []string{"payments-api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := m.Resolve(tt.preset, tt.expression)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, filter)
			}

			matches, err := m.Apply(context.Background(), filter, repos)
			require.NoError(t, err)

			slugs := make([]string, 0, len(matches))
			for _, r := range matches {
				slugs = append(slugs, r.Slug)
			}
			assert.Equal(t, tt.wantSlugs, slugs)
		})
	}

	t.Run("unknown preset", func(t *testing.T) {
		_, err := m.Resolve("missing", "")
		assert.ErrorIs(t, err, ErrUnknownPreset)
	})
}
