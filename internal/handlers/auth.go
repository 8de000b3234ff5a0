package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"commons/internal/middleware"
	"commons/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const invalidCredentialsMessage = "Invalid username or password."

type AuthHandler struct {
	users *services.UserService
	auth  *services.AuthService
	log   *zap.Logger
}

func NewAuthHandler(users *services.UserService, auth *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, auth: auth, log: log}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.CurrentClaims(c) != nil {
		c.Redirect(http.StatusFound, "/comments")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	form := gin.H{"Username": username}

	res, err := h.auth.EvaluateLogin(c.Request.Context(), username, password, c.ClientIP())
	if err != nil {
		logError(c, h.log, err)
		Render(c, http.StatusInternalServerError, "auth/login.html", gin.H{"Error": "Login failed. Please try again.", "Form": form})
		return
	}

	switch res.Outcome {
	case services.LoginLocked:
		msg := fmt.Sprintf("Account locked due to too many failed attempts. Try again in %d minute(s).", res.MinutesRemaining())
		if res.NewlyLocked {
			msg = fmt.Sprintf("Too many failed login attempts. Your account has been locked for %d minutes.", res.MinutesRemaining())
			h.log.Warn("Account locked", zap.String("username", username), zap.String("ip", c.ClientIP()))
		}
		Render(c, http.StatusLocked, "auth/login.html", gin.H{"Error": msg, "Form": form})
		return
	case services.LoginInvalid:
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": invalidCredentialsMessage, "Form": form})
		return
	}

	if err := middleware.StartSession(c, *res.Claims); err != nil {
		logError(c, h.log, err)
		Render(c, http.StatusInternalServerError, "auth/login.html", gin.H{"Error": "Login failed. Please try again.", "Form": form})
		return
	}
	c.Redirect(http.StatusFound, "/comments")
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	in := services.RegisterInput{
		Username:    c.PostForm("username"),
		Email:       c.PostForm("email"),
		DisplayName: c.PostForm("displayName"),
		Password:    c.PostForm("password"),
	}
	form := gin.H{
		"Username":    strings.TrimSpace(in.Username),
		"Email":       strings.TrimSpace(in.Email),
		"DisplayName": strings.TrimSpace(in.DisplayName),
	}

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			logError(c, h.log, err)
			msg = "Registration failed."
		}
		Render(c, code, "auth/register.html", gin.H{"Error": msg, "Form": form})
		return
	}

	claims := services.SessionClaims{UserID: user.ID, Username: user.Username, DisplayName: user.DisplayName}
	if err := middleware.StartSession(c, claims); err != nil {
		logError(c, h.log, err)
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.log.Info("User registered", zap.Uint("user_id", user.ID))
	c.Redirect(http.StatusFound, "/comments")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.EndSession(c); err != nil {
		logError(c, h.log, err)
	}
	c.Redirect(http.StatusFound, "/")
}
