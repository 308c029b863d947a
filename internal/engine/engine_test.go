package engine

import "testing"

// withConfig installs c for the duration of the test and restores the previous config.
func withConfig(t *testing.T, c Config) {
	t.Helper()
	prev := cfg
	Init(c)
	t.Cleanup(func() { Init(prev) })
}
