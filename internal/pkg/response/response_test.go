package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/service-booking-backend/internal/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorMapsAppErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", apperror.Validation("booking date must be in the future"), http.StatusBadRequest, "booking date must be in the future"},
		{"not found", apperror.NotFound("booking not found"), http.StatusNotFound, "booking not found"},
		{"dependency hides cause", apperror.Dependency(errors.New("dial tcp"), "booking store unavailable"), http.StatusServiceUnavailable, "booking store unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestNewListResponseNeverNull(t *testing.T) {
	resp := NewListResponse[string](nil)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(b))
}
