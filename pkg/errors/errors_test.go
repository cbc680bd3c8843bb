package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"app error wins", New(ErrInternal, http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{"not found", fmt.Errorf("title for %q: %w", "x.txt", ErrDocumentNotFound), http.StatusNotFound},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"cache", ErrCacheUnavailable, http.StatusServiceUnavailable},
		{"read failure", ErrDocumentRead, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestAppErrorUnwraps(t *testing.T) {
	err := Newf(ErrInvalidInput, http.StatusBadRequest, "unknown policy %q", "fuzzy")
	assert.True(t, Is(err, ErrInvalidInput))
	assert.Equal(t, `invalid input: unknown policy "fuzzy"`, err.Error())

	var appErr *AppError
	assert.True(t, As(fmt.Errorf("wrapped: %w", err), &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}
