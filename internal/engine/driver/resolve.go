package driver

import (
	"go.trai.ch/obuild/internal/core/domain"
)

// resolve returns the memoized per-target state, computing the subrule list
// on first touch. Resolution depends only on the rule table as it stood at
// the first call for the target. The mutex keeps nested invoke re-entry
// safe; resolution otherwise stays on the driver goroutine.
func (e *Engine) resolve(target string) (*targetState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if state, ok := e.targets[target]; ok {
		return state, nil
	}

	subs, err := e.selectRules(target)
	if err != nil {
		return nil, err
	}
	state := &targetState{subs: subs}
	e.targets[target] = state
	return state, nil
}

// selectRules scans the rule table in registration order and applies the
// specificity policy: dep-only rules all accumulate, at most one body rule
// wins. An exact body rule beats every pattern; among patterns the shortest
// stem wins. Ties are a redefinition of the target.
func (e *Engine) selectRules(target string) ([]domain.SubRule, error) {
	var (
		depOnly   []domain.SubRule
		bodyExact []*domain.Rule
		bodyPat   []domain.SubRule
	)

	for _, r := range e.rules {
		if r.Target == target {
			if r.Body == nil {
				depOnly = append(depOnly, domain.SubRule{Rule: r})
			} else {
				bodyExact = append(bodyExact, r)
			}
			continue
		}
		stem, ok := domain.MatchStem(target, r.Target)
		if !ok {
			continue
		}
		if r.Body == nil {
			depOnly = append(depOnly, domain.SubRule{Rule: r, Stem: stem})
		} else {
			bodyPat = append(bodyPat, domain.SubRule{Rule: r, Stem: stem})
		}
	}

	winner, err := pickBody(target, bodyExact, bodyPat)
	if err != nil {
		return nil, err
	}

	// The body rule leads the list so that its first dep becomes the body's
	// source alias; dep-only rules follow in registration order.
	var subs []domain.SubRule
	if winner != nil {
		subs = append(subs, *winner)
	}
	subs = append(subs, depOnly...)
	return subs, nil
}

func pickBody(target string, exact []*domain.Rule, pat []domain.SubRule) (*domain.SubRule, error) {
	if len(exact) > 1 {
		return nil, domain.RedefinitionError(target)
	}
	if len(exact) == 1 {
		return &domain.SubRule{Rule: exact[0]}, nil
	}
	if len(pat) == 0 {
		return nil, nil
	}

	best, ties := pat[0], 0
	for _, c := range pat[1:] {
		switch {
		case len(c.Stem) < len(best.Stem):
			best, ties = c, 0
		case len(c.Stem) == len(best.Stem):
			ties++
		}
	}
	if ties > 0 {
		return nil, domain.RedefinitionError(target)
	}
	return &best, nil
}
