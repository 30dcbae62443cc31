package driver

import "sync"

// waitScope is one element of the per-subtree barrier stack. It counts
// outstanding pool tasks and retains the first task failure. The stack
// itself is touched only by the driver goroutine; workers touch a scope
// through add/done under its own lock.
type waitScope struct {
	mu          sync.Mutex
	cond        *sync.Cond
	outstanding int
	err         error
}

func newWaitScope() *waitScope {
	s := &waitScope{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *waitScope) add() {
	s.mu.Lock()
	s.outstanding++
	s.mu.Unlock()
}

// done records a task completion. The first non-nil error wins; later
// failures in the same scope are dropped.
func (s *waitScope) done(err error) {
	s.mu.Lock()
	if err != nil && s.err == nil {
		s.err = err
	}
	s.outstanding--
	last := s.outstanding == 0
	s.mu.Unlock()
	if last {
		s.cond.Broadcast()
	}
}

// wait blocks until every task counted by the scope has completed, then
// returns the retained failure, if any. Queued tasks are never cancelled.
func (s *waitScope) wait() error {
	s.mu.Lock()
	for s.outstanding > 0 {
		s.cond.Wait()
	}
	err := s.err
	s.mu.Unlock()
	return err
}
