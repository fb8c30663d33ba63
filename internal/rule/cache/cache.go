// Package cache memoises parsed rule records per scenario document, so
// repeated runs of the same scenario skip document parsing. Callers build
// rules from the records per engine; cached records are never handed out as
// live rule objects.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"colmto/internal/rule"
)

type InMemory struct {
	mu    sync.RWMutex
	max   int
	items map[string][]rule.Config
}

func NewInMemory(max int) *InMemory {
	return &InMemory{
		max:   max,
		items: make(map[string][]rule.Config, max),
	}
}

func (c *InMemory) GetOrCompute(doc string, fn func() ([]rule.Config, error)) ([]rule.Config, error) {
	key := hash(doc)

	c.mu.RLock()
	if v, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items[key]; ok {
		return v, nil
	}

	cfgs, err := fn()
	if err != nil {
		return nil, err
	}

	if len(c.items) < c.max {
		c.items[key] = cfgs
	}

	return cfgs, nil
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
