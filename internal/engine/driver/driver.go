// Package driver implements the rule engine: the rule table, target
// resolution, and dependency-ordered execution on the task pool.
package driver

import (
	"context"
	"strings"
	"sync"

	"go.trai.ch/obuild/internal/core/domain"
	"go.trai.ch/obuild/internal/core/ports"
	"go.trai.ch/obuild/internal/engine/pool"
)

// Engine drives a single build run. Rules are registered while the build
// file evaluates; execution starts with ExecMain. Rule bodies run on the
// driver goroutine; only shell commands are handed to the pool.
type Engine struct {
	exec ports.Executor
	stat ports.Staleness
	pool *pool.Pool

	mu       sync.Mutex
	rules    []*domain.Rule
	targets  map[string]*targetState
	visiting map[string]bool

	// scopes is the wait-scope stack. Bodies and dep expansion run on the
	// driver goroutine, so the stack needs no lock; workers only touch the
	// scope they were enqueued against.
	scopes []*waitScope
}

// targetState is the per-concrete-target memo: the resolved subrule list,
// and the outcome once the target has been executed. It makes resolution
// deterministic per run and keeps a body from running twice.
type targetState struct {
	subs []domain.SubRule
	done bool
	err  error
}

// New creates an Engine executing shell tasks on workers pool workers.
func New(exec ports.Executor, stat ports.Staleness, workers int) *Engine {
	return &Engine{
		exec:     exec,
		stat:     stat,
		pool:     pool.New(workers),
		targets:  make(map[string]*targetState),
		visiting: make(map[string]bool),
	}
}

// AddRule appends a rule to the table. The table is append-only and must be
// fully populated before ExecMain runs.
func (e *Engine) AddRule(r *domain.Rule) {
	e.mu.Lock()
	e.rules = append(e.rules, r)
	e.mu.Unlock()
}

// RuleCount reports how many rules the build file registered.
func (e *Engine) RuleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.rules)
}

// Close drains the task pool and joins its workers.
func (e *Engine) Close() error {
	return e.pool.Close()
}

// ExecMain builds target inside a root wait scope and returns once every
// task the build spawned has completed. It is also the entry point for the
// script host's invoke primitive, which nests runs on the same engine.
func (e *Engine) ExecMain(ctx context.Context, target string) error {
	root := newWaitScope()
	e.scopes = append(e.scopes, root)
	err := e.execRule(ctx, target, "")
	e.scopes = e.scopes[:len(e.scopes)-1]
	werr := root.wait()
	if err != nil {
		return err
	}
	return werr
}

// Shell enqueues command against the innermost wait scope. Outside of a
// build (during configuration) the command runs synchronously instead.
func (e *Engine) Shell(ctx context.Context, command string) error {
	if len(e.scopes) == 0 {
		return e.exec.Execute(ctx, command)
	}
	scope := e.scopes[len(e.scopes)-1]
	scope.add()
	e.pool.Push(func() {
		scope.done(e.exec.Execute(ctx, command))
	})
	return nil
}

// execRule resolves and executes one concrete target. from names the target
// that required it, for error reporting.
func (e *Engine) execRule(ctx context.Context, target, from string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.visiting[target] {
		return domain.CycleError(target)
	}

	state, err := e.resolve(target)
	if err != nil {
		return err
	}
	if state.done {
		return state.err
	}

	e.visiting[target] = true
	state.done, state.err = true, e.execResolved(ctx, target, from, state.subs)
	delete(e.visiting, target)
	return state.err
}

func (e *Engine) execResolved(ctx context.Context, target, from string, subs []domain.SubRule) error {
	if len(subs) == 0 {
		if e.stat.Exists(target) {
			// A source file leaf: nothing to do.
			return nil
		}
		return domain.NoRuleError(target, from)
	}

	// A lone dependency-free action skips dep expansion and the staleness
	// oracle entirely.
	if len(subs) == 1 && subs[0].Rule.Action && len(subs[0].Rule.Deps) == 0 {
		return subs[0].Rule.Body(ctx, domain.Bindings{Target: target})
	}

	return e.execFunc(ctx, target, subs)
}

// execFunc runs the dependency expansion and, when required, the body of
// one resolved target. The wait scope opened here joins every task spawned
// by the dependencies' bodies before this target's own body may run.
func (e *Engine) execFunc(ctx context.Context, target string, subs []domain.SubRule) error {
	scope := newWaitScope()
	e.scopes = append(e.scopes, scope)

	subdeps, listErr := e.execList(ctx, target, subs)

	e.scopes = e.scopes[:len(e.scopes)-1]
	scopeErr := scope.wait()

	if listErr != nil {
		return listErr
	}
	if scopeErr != nil {
		return scopeErr
	}

	var body *domain.Rule
	for _, sr := range subs {
		if sr.Rule.Body != nil {
			body = sr.Rule
			break
		}
	}
	if body == nil {
		return nil
	}
	if !body.Action && !e.stat.NeedsRun(target, subdeps) {
		return nil
	}

	b := domain.Bindings{Target: target}
	if len(subdeps) > 0 {
		b.Source = subdeps[0]
		b.Sources = strings.Join(subdeps, " ")
		b.HasSources = true
	}
	return body.Body(ctx, b)
}

// execList expands each subrule's deps with its stem and executes them
// serially, stopping at the first failure. It returns the substituted dep
// names gathered so far even on failure.
func (e *Engine) execList(ctx context.Context, target string, subs []domain.SubRule) ([]string, error) {
	var subdeps []string
	for _, sr := range subs {
		for _, dep := range sr.Rule.Deps {
			name := dep
			if domain.HasStem(dep) {
				if sr.Stem == "" {
					return subdeps, domain.StemUnboundError(dep, target)
				}
				name = domain.SubstStem(dep, sr.Stem)
			}
			subdeps = append(subdeps, name)
			if err := e.execRule(ctx, name, target); err != nil {
				return subdeps, err
			}
		}
	}
	return subdeps, nil
}
