package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndMessageOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"custom error", ErrGenerationFailed.Wrap(errors.New("boom")), http.StatusBadGateway, "recipe generation failed"},
		{"wrapped custom error", fmt.Errorf("outer: %w", ErrStoreUnavailable.Wrap(errors.New("dial"))), http.StatusServiceUnavailable, "pantry store unavailable"},
		{"validation error", NewValidationError("servings must be positive"), http.StatusBadRequest, "servings must be positive"},
		{"plain error", errors.New("secret detail"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusOf(tt.err))
			assert.Equal(t, tt.msg, MessageOf(tt.err))
		})
	}
}

func TestCustomErrorIs(t *testing.T) {
	err := ErrInvalidRequest.Wrap(errors.New("bad field"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "invalid request: bad field", err.Error())
}
