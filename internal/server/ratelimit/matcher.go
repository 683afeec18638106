package ratelimit

import (
	"net/http"
)

// matcher resolves a request to the rule whose pattern http.ServeMux would
// route it to, so the most specific pattern wins.
type matcher struct {
	mux       *http.ServeMux
	byPattern map[string]*Rule
}

// newMatcher registers every rule pattern. It panics on an invalid pattern or
// on two patterns that conflict, as http.ServeMux.Handle does.
func newMatcher(rules []Rule) *matcher {
	m := &matcher{mux: http.NewServeMux(), byPattern: make(map[string]*Rule)}
	for i := range rules {
		rule := &rules[i]
		for _, pattern := range rule.Patterns {
			m.mux.Handle(pattern, http.NotFoundHandler())
			m.byPattern[pattern] = rule
		}
	}
	return m
}

// match returns the rule for r, or nil when no pattern routes it.
func (m *matcher) match(r *http.Request) *Rule {
	_, pattern := m.mux.Handler(r)
	if pattern == "" {
		return nil
	}
	return m.byPattern[pattern]
}
