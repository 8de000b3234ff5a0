package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"commons/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", models.NewValidationError("Invalid color."), http.StatusBadRequest, "Invalid color."},
		{"wrapped validation", fmt.Errorf("ctx: %w", models.NewValidationError("Too long.")), http.StatusBadRequest, "Too long."},
		{"bad password", &models.UnauthorizedError{Reason: "Current password incorrect."}, http.StatusUnauthorized, "Current password incorrect."},
		{"no session", models.ErrUnauthorized, http.StatusUnauthorized, "Login required."},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, "Forbidden."},
		{"not found", fmt.Errorf("loading: %w", models.ErrNotFound), http.StatusNotFound, "Not found."},
		{"conflict", &models.ConflictError{Reason: "Email already in use."}, http.StatusConflict, "Email already in use."},
		{"storage", errors.New("disk I/O error"), http.StatusInternalServerError, genericErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := statusFor(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestAbortWithError_HidesAndLogsServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/comments", nil)

	abortWithError(c, zap.New(core), errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, genericErrorMessage, w.Body.String())
	assert.True(t, c.IsAborted())
	assert.Equal(t, 1, logs.Len())
}

func TestAbortWithError_ClientErrorsAreNotLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/comments/1/vote", nil)

	abortWithError(c, zap.New(core), models.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, logs.Len())
}
