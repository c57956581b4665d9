package main

import "testing"

// TestMainIsWiringOnly documents why this package carries no unit tests.
func TestMainIsWiringOnly(t *testing.T) {
	t.Skip("main assembles internal packages that are tested individually; exercising the entrypoint would need process exec")
}
