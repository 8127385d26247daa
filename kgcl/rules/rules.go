// Package rules implements the Rules Provider port (C3): an immutable,
// cached N3 rule set. Grounded on config/config.go's cached-loader
// idiom (load once, validate, return the same value thereafter).
package rules

import "sync"

// Provider supplies an immutable N3 rule set. GetRules MUST return a
// byte-identical string across calls for the lifetime of the process.
type Provider interface {
	GetRules() (string, error)
}

// StaticProvider serves a rule set supplied at construction (embedded
// constant or file contents read once by the caller).
type StaticProvider struct {
	once  sync.Once
	rules string
	err   error
	load  func() (string, error)
}

// NewStatic returns a Provider that always serves the given text.
func NewStatic(n3 string) *StaticProvider {
	return &StaticProvider{rules: n3}
}

// NewLazy returns a Provider that calls load exactly once, on first
// GetRules, and caches the result (or error) for all subsequent calls.
func NewLazy(load func() (string, error)) *StaticProvider {
	return &StaticProvider{load: load}
}

// GetRules returns the cached rule set, loading it on first call if a
// lazy loader was configured.
func (p *StaticProvider) GetRules() (string, error) {
	if p.load == nil {
		return p.rules, nil
	}
	p.once.Do(func() {
		p.rules, p.err = p.load()
	})
	return p.rules, p.err
}
