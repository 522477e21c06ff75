package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentwork/partner-console/internal/domain"
)

func TestToDomainError_MapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{domain.ErrUnknownAmbassador, "UNKNOWN_AMBASSADOR", http.StatusNotFound},
		{domain.ErrUnknownPartner, "UNKNOWN_PARTNER", http.StatusNotFound},
		{domain.ErrUnknownRequest, "UNKNOWN_REQUEST", http.StatusNotFound},
		{domain.ErrInvalidLevel, "INVALID_LEVEL", http.StatusBadRequest},
		{domain.ErrInvalidActivity, "INVALID_ACTIVITY", http.StatusBadRequest},
		{domain.ErrAmbassadorNotQualified, "AMBASSADOR_NOT_QUALIFIED", http.StatusForbidden},
		{domain.ErrModelMismatch, "MODEL_MISMATCH", http.StatusConflict},
		{domain.ErrInvalidTransition, "INVALID_TRANSITION", http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			wrapped := fmt.Errorf("partner p1: %w", tc.err)
			got := ToDomainError(wrapped)
			require.NotNil(t, got)
			assert.Equal(t, tc.code, got.Code)
			assert.Equal(t, tc.status, got.HTTPStatus)
			assert.Equal(t, wrapped.Error(), got.Message)
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func TestToDomainError_PassesThroughAndHidesInternals(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	forbidden := NewForbidden("admin role required")
	assert.Same(t, forbidden, ToDomainError(fmt.Errorf("guard: %w", forbidden)))

	got := ToDomainError(errors.New("connection reset"))
	assert.Equal(t, "INTERNAL_ERROR", got.Code)
	assert.Equal(t, "internal server error", got.Message)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
}
