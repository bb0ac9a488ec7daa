package testutil

import "testing"

// Step runs fn as a subtest named "<keyword> <desc>".
func Step(t *testing.T, keyword, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run(keyword+" "+desc, fn)
}

// Given describes the ledger or directory state a scenario starts from.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return Step(t, "Given", desc, fn)
}

// When describes the request under test.
func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return Step(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return Step(t, "Then", desc, fn)
}

func And(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return Step(t, "And", desc, fn)
}
