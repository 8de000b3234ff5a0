package handlers

import (
	"net/http"

	"commons/internal/middleware"
	"commons/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the profile page and its settings forms.
type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) Profile(c *gin.Context) {
	h.renderProfile(c, http.StatusOK, gin.H{"Success": c.Query("saved") != ""})
}

func (h *UserHandler) renderProfile(c *gin.Context, code int, obj gin.H) {
	claims := middleware.CurrentClaims(c)
	profile, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		// the account behind this session no longer exists
		_ = middleware.EndSession(c)
		c.Redirect(http.StatusFound, "/login")
		return
	}
	obj["Profile"] = profile
	Render(c, code, "user/profile.html", obj)
}

// fail re-renders the profile page with the error message and its status.
func (h *UserHandler) fail(c *gin.Context, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		logError(c, h.log, err)
	}
	h.renderProfile(c, code, gin.H{"Error": msg})
}

func (h *UserHandler) UpdateDisplayName(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := h.users.UpdateDisplayName(c.Request.Context(), claims.UserID, c.PostForm("displayName")); err != nil {
		h.fail(c, err)
		return
	}

	profile, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := middleware.SetDisplayName(c, profile.DisplayName); err != nil {
		logError(c, h.log, err)
	}
	c.Redirect(http.StatusFound, "/profile?saved=1")
}

func (h *UserHandler) UpdateEmail(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	err := h.users.UpdateEmail(c.Request.Context(), claims.UserID, c.PostForm("email"), c.PostForm("currentPassword"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile?saved=1")
}

// ChangePassword updates the password and ends the session, so the user has
// to log in again with the new one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	err := h.users.ChangePassword(c.Request.Context(), claims.UserID, c.PostForm("currentPassword"), c.PostForm("newPassword"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info("Password changed", zap.Uint("user_id", claims.UserID))
	if err := middleware.EndSession(c); err != nil {
		logError(c, h.log, err)
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *UserHandler) Customize(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	err := h.users.UpdateCustomization(c.Request.Context(), claims.UserID, c.PostForm("profileColor"), c.PostForm("avatar"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile?saved=1")
}
