package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/s0up4200/bucketeer/bitbucket"
)

// Manager holds named filter presets and applies filters to repositories
type Manager struct {
	compiler  Compiler
	evaluator *Evaluator
	presets   map[string]CompiledFilter
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator *Evaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewExprCompiler(WithCache(DefaultCacheSize)),
		evaluator: NewEvaluator(),
		presets:   make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterPresets compiles and registers named filters. Nothing is
// registered unless every expression compiles.
func (m *Manager) RegisterPresets(presets map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(presets))

	for name, expression := range presets {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile preset '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.presets, compiled)
	m.mu.Unlock()

	return nil
}

// Preset returns a registered preset by name
func (m *Manager) Preset(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.presets[name]
	m.mu.RUnlock()
	return filter, exists
}

// Presets returns the registered preset names in sorted order
func (m *Manager) Presets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.presets))
}

// Resolve builds the filter for a preset name and an ad hoc expression.
// Either may be empty; when both are given a repository must match both.
// It returns nil when neither is set.
func (m *Manager) Resolve(preset, expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)

	if preset == "" {
		if expression == "" {
			return nil, nil
		}
		return m.compiler.Compile(expression)
	}

	base, ok := m.Preset(preset)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, preset)
	}
	if expression == "" {
		return base, nil
	}

	return m.compiler.Compile(fmt.Sprintf("(%s) and (%s)", base.Expression(), expression))
}

// Apply returns the repositories matching filter. A nil filter matches everything.
func (m *Manager) Apply(ctx context.Context, filter CompiledFilter, repos []bitbucket.Repository) ([]bitbucket.Repository, error) {
	if filter == nil {
		return repos, nil
	}
	return m.evaluator.Evaluate(ctx, filter, repos)
}
