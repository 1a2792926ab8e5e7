package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/pkg/apperr"
)

func TestConstructorsCarryKindAndStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    *apperr.Error
		kind   apperr.Kind
		status int
	}{
		{"new", apperr.New(http.StatusBadRequest, "empty comment"), apperr.KindApp, http.StatusBadRequest},
		{"not found", apperr.NotFound("missing"), apperr.KindNotFound, http.StatusNotFound},
		{"forbidden", apperr.Forbidden("hands off"), apperr.KindForbidden, http.StatusForbidden},
		{"validation", apperr.Validation("bad input"), apperr.KindValidation, http.StatusBadRequest},
		{"unavailable", apperr.Unavailable("db down", errors.New("conn refused")), apperr.KindUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.kind, tc.err.Kind)
			require.Equal(t, tc.status, tc.err.Status)
			require.Equal(t, tc.kind, apperr.KindOf(tc.err))
			require.Equal(t, tc.status, apperr.StatusOf(tc.err))
		})
	}
}

func TestUnavailableWrapsCause(t *testing.T) {
	cause := errors.New("conn refused")
	err := apperr.Unavailable("store failed", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "store failed")
	require.Contains(t, err.Error(), "conn refused")
}

func TestKindMatchingThroughWrapping(t *testing.T) {
	inner := apperr.NotFound("user not found")
	wrapped := fmt.Errorf("handling request: %w", inner)

	require.True(t, apperr.IsNotFound(wrapped))
	require.False(t, apperr.IsForbidden(wrapped))
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
	require.Equal(t, http.StatusNotFound, apperr.StatusOf(wrapped))
}

func TestPlainErrorDefaults(t *testing.T) {
	err := errors.New("plain")
	require.Equal(t, apperr.KindApp, apperr.KindOf(err))
	require.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	require.False(t, apperr.IsNotFound(err))
}

func TestIsMatchesByKind(t *testing.T) {
	err := apperr.Forbidden("you cannot delete this article")
	require.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindForbidden}))
	require.False(t, errors.Is(err, &apperr.Error{Kind: apperr.KindNotFound}))
	require.True(t, errors.Is(err, &apperr.Error{Kind: apperr.KindForbidden, Message: "you cannot delete this article"}))
	require.False(t, errors.Is(err, &apperr.Error{Kind: apperr.KindForbidden, Message: "other message"}))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "not_found", apperr.KindNotFound.String())
	require.Equal(t, "forbidden", apperr.KindForbidden.String())
	require.Equal(t, "validation", apperr.KindValidation.String())
	require.Equal(t, "unavailable", apperr.KindUnavailable.String())
	require.Equal(t, "app", apperr.KindApp.String())
}
