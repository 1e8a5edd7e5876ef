package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// go test -run ^TestHandleHealthReturnsOK$
func TestHandleHealthReturnsOK(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	HandleHealth(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	b, _ := io.ReadAll(rr.Result().Body)
	assert.JSONEq(t, `{"status":"ok"}`, string(b))
}
