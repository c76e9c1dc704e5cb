//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertLocation checks the Location header of a 201 response.
func AssertLocation(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	assert.Equal(t, want, w.Header().Get("Location"), "Location header mismatch")
}
