package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"not found", NotFound("missing"), KindNotFound},
		{"dependency", Dependency(cause, "store unavailable"), KindDependency},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("missing")), KindNotFound},
		{"forbidden", New(http.StatusForbidden, "nope"), KindForbidden},
		{"plain error", cause, KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Dependency(cause, "store unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.Equal(t, "store unavailable: timeout", err.Error())
	assert.Equal(t, "store unavailable", err.Message)
}
