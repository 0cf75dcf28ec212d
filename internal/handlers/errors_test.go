package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/services"
	"shelterfund/internal/utils"
	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "wrapped sentinel", err: fmt.Errorf("donate: %w", services.ErrInsufficientBalance), status: http.StatusUnprocessableEntity, code: utils.CodeInsufficientBalance},
		{name: "balance changed", err: interfaces.ErrBalanceChanged, status: http.StatusConflict, code: utils.CodeBalanceChanged},
		{name: "missing index", err: fmt.Errorf("list animals: %w", interfaces.ErrMissingIndex), status: http.StatusInternalServerError, code: utils.CodeMissingIndex},
		{name: "image too large", err: services.ErrImageTooLarge, status: http.StatusRequestEntityTooLarge, code: utils.CodeImageTooLarge},
		{name: "unknown", err: errors.New("socket closed"), status: http.StatusInternalServerError, code: utils.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, logger.NewNop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body utils.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.code == utils.CodeInternalError {
				assert.Equal(t, utils.ErrInternalServer, body.Error.Message)
			}
		})
	}
}
