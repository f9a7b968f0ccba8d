package testfixtures

import (
	"fmt"
	"sync"
)

// TokenSource produces deterministic session tokens for tests.
type TokenSource struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

// NewTokenSource constructs a source that yields tokens with the given
// prefix. When prefix is empty, "token" is used.
func NewTokenSource(prefix string) *TokenSource {
	if prefix == "" {
		prefix = "token"
	}
	return &TokenSource{prefix: prefix}
}

// Next returns the next token in the sequence.
func (g *TokenSource) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

// NextFunc exposes Next as a function suitable for session.WithTokenSource.
func (g *TokenSource) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// SetCounter overrides the internal counter, enabling deterministic resets.
func (g *TokenSource) SetCounter(counter uint64) {
	g.mu.Lock()
	g.counter = counter
	g.mu.Unlock()
}
