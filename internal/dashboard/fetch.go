package dashboard

import "sync"

type FetchState string

const (
	NotFetched FetchState = "not_fetched"
	Fetching   FetchState = "fetching"
	Fetched    FetchState = "fetched"
)

// FetchGuard makes the initial remote fetch one-shot per session. A failed
// fetch puts the guard back where it was so the next read retries.
type FetchGuard struct {
	mu    sync.Mutex
	state FetchState
	prev  FetchState
}

func NewFetchGuard() *FetchGuard {
	return &FetchGuard{state: NotFetched}
}

func (g *FetchGuard) State() FetchState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Begin moves to Fetching. It returns false when a fetch is already running,
// or when data was already fetched and force is not set.
func (g *FetchGuard) Begin(force bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.state {
	case Fetching:
		return false
	case Fetched:
		if !force {
			return false
		}
	}
	g.prev = g.state
	g.state = Fetching
	return true
}

func (g *FetchGuard) Complete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Fetching {
		g.state = Fetched
	}
}

func (g *FetchGuard) Fail() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Fetching {
		g.state = g.prev
	}
}
