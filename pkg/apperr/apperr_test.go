package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Conflict, KindOf(E(Conflict, "already approved")))
	assert.Equal(t, NotFound, KindOf(Errorf(NotFound, "no record %d", 7)))

	// kind survives wrapping
	wrapped := fmt.Errorf("approve stage: %w", E(Forbidden, "wrong role"))
	assert.Equal(t, Forbidden, KindOf(wrapped))
	assert.True(t, Is(wrapped, Forbidden))

	// unclassified errors fall back to Internal
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, Internal))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Unauthorized:       http.StatusUnauthorized,
		Forbidden:          http.StatusForbidden,
		NotFound:           http.StatusNotFound,
		Conflict:           http.StatusConflict,
		PreconditionFailed: http.StatusBadRequest,
		InvalidArgument:    http.StatusBadRequest,
		Internal:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(E(kind, "x")), "kind %d", kind)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
