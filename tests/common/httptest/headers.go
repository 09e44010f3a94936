//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}

// AssertQuotaHeaders checks the X-RateLimit pair the relay sets on allowed uploads.
func AssertQuotaHeaders(t *testing.T, w *httptest.ResponseRecorder, limit, remaining int) {
	t.Helper()
	AssertHeaders(t, w, map[string]string{
		"X-RateLimit-Limit":     strconv.Itoa(limit),
		"X-RateLimit-Remaining": strconv.Itoa(remaining),
	})
}

// AssertRetryAfter checks a throttled response in whole seconds.
func AssertRetryAfter(t *testing.T, w *httptest.ResponseRecorder, seconds int) {
	t.Helper()
	assert.Equal(t, 429, w.Code)
	assert.Equal(t, strconv.Itoa(seconds), w.Header().Get("Retry-After"))
}
