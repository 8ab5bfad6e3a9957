package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// NewMiniredis starts an in-process redis server that is closed when the test ends.
func NewMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("starting miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}
