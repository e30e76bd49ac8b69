package forms

import (
	"context"
	"sync"
)

// Gate stops a form from being submitted twice while the first submission
// is still in flight. Keys combine the admin and the form name.
type Gate interface {
	TryAcquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// GateKey builds the key for one admin's form
func GateKey(actor, form string) string {
	return actor + ":" + form
}

// MemoryGate keeps one lock per key inside this process
type MemoryGate struct {
	locks    map[string]*sync.Mutex // key → mutex
	mapMutex sync.RWMutex           // protects the map itself
}

func NewMemoryGate() *MemoryGate {
	return &MemoryGate{
		locks: make(map[string]*sync.Mutex),
	}
}

// TryAcquire never blocks; it reports false while the key is held
func (g *MemoryGate) TryAcquire(_ context.Context, key string) (bool, error) {
	g.mapMutex.Lock()
	if g.locks[key] == nil {
		g.locks[key] = &sync.Mutex{}
	}
	m := g.locks[key]
	g.mapMutex.Unlock()

	return m.TryLock(), nil
}

// Release frees a key taken by a successful TryAcquire
func (g *MemoryGate) Release(_ context.Context, key string) error {
	g.mapMutex.RLock()
	m := g.locks[key]
	g.mapMutex.RUnlock()

	if m != nil {
		m.Unlock()
	}
	return nil
}
