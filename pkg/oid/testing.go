package oid

import "testing"

// UseNext makes the next generated identifiers the given ones, in order.
// Generating more identifiers than provided panics.
func UseNext(t *testing.T, ids ...OID) {
	t.Helper()
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = MustParse(string(id)).String()
	}
	use(t, NewSuiteGenerator(values...))
}

// UseFixed makes every generated identifier the same.
func UseFixed(t *testing.T, id OID) {
	t.Helper()
	use(t, NewFixedGenerator(MustParse(string(id))))
}

// UseSequence numbers generated identifiers from 1 (XXXXXXXXXW, XXXXXXXXXV, ...).
func UseSequence(t *testing.T) {
	t.Helper()
	use(t, NewSequenceGenerator())
}

// use replaces the generator until the end of the test.
func use(t *testing.T, g Generator) {
	previous := generator
	generator = g
	t.Cleanup(func() {
		generator = previous
	})
}
