package dolt

import (
	"context"
	"strings"
)

// MockInvoker is a scripted Invoker for testing the facade without a
// live Dolt server.
type MockInvoker struct {
	// CallResults holds result rows keyed by procedure name.
	CallResults map[string][]Row
	// CallErrs holds errors keyed by procedure name.
	CallErrs map[string]error
	// QueryResults holds result rows keyed by a substring of the query
	// (e.g. "dolt_status", "active_branch").
	QueryResults map[string][]Row
	// QueryErrs holds errors keyed the same way.
	QueryErrs map[string]error
	// Err, when set, makes every method fail.
	Err error
	// Invocations records every Call and Query in order.
	Invocations []Invocation
}

// Invocation records one invoker call for assertions.
type Invocation struct {
	Procedure string // empty for queries
	Query     string // empty for procedure calls
	Args      []any
}

// NewMockInvoker creates an empty MockInvoker.
func NewMockInvoker() *MockInvoker {
	return &MockInvoker{
		CallResults:  make(map[string][]Row),
		CallErrs:     make(map[string]error),
		QueryResults: make(map[string][]Row),
		QueryErrs:    make(map[string]error),
	}
}

// Call records the invocation and returns the scripted result.
func (m *MockInvoker) Call(_ context.Context, procedure string, args ...any) ([]Row, error) {
	m.Invocations = append(m.Invocations, Invocation{Procedure: procedure, Args: args})
	if m.Err != nil {
		return nil, m.Err
	}
	if err := m.CallErrs[procedure]; err != nil {
		return nil, err
	}
	return m.CallResults[procedure], nil
}

// Query records the invocation and returns the first scripted result
// whose key the query contains.
func (m *MockInvoker) Query(_ context.Context, query string, args ...any) ([]Row, error) {
	m.Invocations = append(m.Invocations, Invocation{Query: query, Args: args})
	if m.Err != nil {
		return nil, m.Err
	}
	for key, err := range m.QueryErrs {
		if strings.Contains(query, key) {
			return nil, err
		}
	}
	for key, rows := range m.QueryResults {
		if strings.Contains(query, key) {
			return rows, nil
		}
	}
	return nil, nil
}

// CallsTo returns the recorded invocations of a given procedure.
func (m *MockInvoker) CallsTo(procedure string) []Invocation {
	var out []Invocation
	for _, inv := range m.Invocations {
		if inv.Procedure == procedure {
			out = append(out, inv)
		}
	}
	return out
}
