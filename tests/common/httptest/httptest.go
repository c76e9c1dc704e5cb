//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Identity is the caller a request is sent as. The zero value is anonymous.
type Identity struct {
	UserID uuid.UUID
	Admin  bool
}

func User(id uuid.UUID) Identity  { return Identity{UserID: id} }
func Admin(id uuid.UUID) Identity { return Identity{UserID: id, Admin: true} }

// executes HTTP request with optional identity headers
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, as Identity) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case []byte:
		reqBody = bytes.NewBuffer(b)
	default:
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if as.UserID != uuid.Nil {
		req.Header.Set("X-User-ID", as.UserID.String())
	}
	if as.Admin {
		req.Header.Set("X-User-Role", "admin")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodes JSON response body into target struct
func DecodeResponseBody(t *testing.T, body *bytes.Buffer, target any) error {
	t.Helper()

	err := json.NewDecoder(body).Decode(target)
	require.NoError(t, err, "Failed to decode response body")

	return err
}
