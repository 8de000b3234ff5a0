package middleware

import (
	"net/http"
	"strings"
	"time"

	"commons/internal/config"
	"commons/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	SessionName  = "commons_session"
	CheckUserKey = "user"

	sessionUserID      = "user_id"
	sessionUsername    = "username"
	sessionDisplayName = "display_name"
)

// NewSessionStore builds the session backend. The db store keeps session data
// server side and only puts an opaque id in the cookie.
func NewSessionStore(cfg *config.Config, conn *gorm.DB) sessions.Store {
	var store sessions.Store
	if cfg.SessionStore == "cookie" {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	} else {
		store = gormsessions.NewStore(conn, true, []byte(cfg.SessionSecret))
	}
	store.Options(SessionOptions(cfg.SessionMaxAge, cfg.IsProduction()))
	return store
}

func SessionOptions(maxAge time.Duration, secure bool) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// StartSession stores the login claims in the session.
func StartSession(c *gin.Context, claims services.SessionClaims) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserID, claims.UserID)
	session.Set(sessionUsername, claims.Username)
	session.Set(sessionDisplayName, claims.DisplayName)
	c.Set(CheckUserKey, &claims)
	return session.Save()
}

// SetDisplayName refreshes the display name held by the current session.
func SetDisplayName(c *gin.Context, displayName string) error {
	session := sessions.Default(c)
	session.Set(sessionDisplayName, displayName)
	if claims := CurrentClaims(c); claims != nil {
		claims.DisplayName = displayName
	}
	return session.Save()
}

// EndSession drops the session data and expires the cookie.
func EndSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	c.Set(CheckUserKey, nil)
	return session.Save()
}

// CurrentClaims returns the logged-in user's claims, or nil for guests.
func CurrentClaims(c *gin.Context) *services.SessionClaims {
	v, ok := c.Get(CheckUserKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.SessionClaims)
	return claims
}

// LoadUser retrieves the session claims and sets them on the context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get(sessionUserID).(uint); ok && userID != 0 {
			username, _ := session.Get(sessionUsername).(string)
			displayName, _ := session.Get(sessionDisplayName).(string)
			c.Set(CheckUserKey, &services.SessionClaims{
				UserID:      userID,
				Username:    username,
				DisplayName: displayName,
			})
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in. Pages redirect to the login form,
// API calls get a 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentClaims(c) == nil {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.String(http.StatusUnauthorized, "Login required.")
			} else {
				c.Redirect(http.StatusFound, "/login")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
