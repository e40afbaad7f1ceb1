package meta

import (
	"sync"

	"github.com/coregx/btre/nfa"
)

// searchState holds per-search mutable memory. A state is used by one
// goroutine at a time and comes from the engine's pool.
type searchState struct {
	backtracker *nfa.BacktrackerState
}

func newSearchState() *searchState {
	return &searchState{backtracker: nfa.NewBacktrackerState()}
}

// searchStatePool manages searchState instances for concurrent reuse, in
// the manner of the stdlib regexp machine cache.
type searchStatePool struct {
	pool sync.Pool
}

func newSearchStatePool() *searchStatePool {
	p := &searchStatePool{}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState()
		},
	}
	return p
}

func (p *searchStatePool) get() *searchState {
	return p.pool.Get().(*searchState)
}

// put returns state to the pool. Buffers are kept; the backtracker resets
// them at the start of the next search.
func (p *searchStatePool) put(state *searchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}
