package handlers

import (
	"errors"
	"net/http"

	"commons/internal/middleware"
	"commons/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const genericErrorMessage = "Something went wrong. Please try again."

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if claims := middleware.CurrentClaims(c); claims != nil {
		obj["CurrentUser"] = claims
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the generic error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// statusFor maps a service error to an HTTP status and a message that is
// safe to show. Unknown errors become a 500 with a generic message.
func statusFor(err error) (int, string) {
	var verr *models.ValidationError
	var conflict *models.ConflictError
	var unauthorized *models.UnauthorizedError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Reason
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, unauthorized.Reason
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, "Login required."
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "Forbidden."
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Not found."
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Reason
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, "Already exists."
	case errors.Is(err, models.ErrLocked):
		return http.StatusLocked, "Account locked."
	default:
		return http.StatusInternalServerError, genericErrorMessage
	}
}

// abortWithError writes err as a plain text API response. Server errors are
// logged and never echoed back.
func abortWithError(c *gin.Context, log *zap.Logger, err error) {
	code, message := statusFor(err)
	if code >= http.StatusInternalServerError {
		logError(c, log, err)
	}
	c.String(code, message)
	c.Abort()
}

func logError(c *gin.Context, log *zap.Logger, err error) {
	_ = c.Error(err)
	log.Error("request failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
	)
}
