package router

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"commons/internal/config"
	"commons/internal/handlers"
	"commons/internal/middleware"
	"commons/internal/services"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	SessionStore sessions.Store
	Users        *services.UserService
	Auth         *services.AuthService
	Comments     *services.CommentService
	Chat         *services.ChatService
	Hub          *services.Hub
}

// New builds the engine with middleware, templates, static assets and routes.
func New(d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.Recovery(d.Log),
		middleware.SecurityHeaders(d.Config.Env),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/chat/stream"})),
		sessions.Sessions(middleware.SessionName, d.SessionStore),
		middleware.LoadUser(),
	)

	r.HTMLRender = LoadTemplates(d.Config.TemplatesDir)
	r.Static("/static", d.Config.StaticDir)

	RegisterRoutes(r, d)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Users, d.Auth, d.Log)
	commentHandler := handlers.NewCommentHandler(d.Comments, d.Log)
	userHandler := handlers.NewUserHandler(d.Users, d.Log)
	chatHandler := handlers.NewChatHandler(d.Chat, d.Hub, d.Log)

	loginLimit := middleware.RateLimit(d.Config.LoginRateLimit, time.Minute)

	// Public pages
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/comments") })
	r.GET("/healthz", handlers.Health(d.DB))
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", loginLimit, authHandler.Login)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", loginLimit, authHandler.Register)
	r.POST("/logout", authHandler.Logout)
	r.GET("/comments", commentHandler.List)
	r.GET("/chat", chatHandler.Page)

	// Pages that need a session
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/comments", commentHandler.Create)
		authorized.GET("/profile", userHandler.Profile)
		authorized.POST("/profile/display-name", userHandler.UpdateDisplayName)
		authorized.POST("/profile/email", userHandler.UpdateEmail)
		authorized.POST("/profile/password", userHandler.ChangePassword)
		authorized.POST("/profile/customize", userHandler.Customize)
	}

	api := r.Group("/api")
	{
		api.GET("/comments", commentHandler.ListJSON)
		api.GET("/chat", chatHandler.History)
		api.GET("/chat/stream", chatHandler.Stream)
	}

	apiAuthorized := r.Group("/api")
	apiAuthorized.Use(middleware.AuthRequired())
	{
		apiAuthorized.PUT("/comments/:id", commentHandler.Update)
		apiAuthorized.POST("/comments/:id/delete", commentHandler.Delete)
		apiAuthorized.POST("/comments/:id/vote", commentHandler.Vote)
		apiAuthorized.POST("/chat", chatHandler.Post)
	}
}

// LoadTemplates builds one template set per view, each combined with the
// shared layouts and includes.
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"gt": func(a, b int) bool {
			return a > b
		},
		"lt": func(a, b int) bool {
			return a < b
		},
		"timeAgo": timeAgo,
		"urlquery": func(s string) string {
			return url.QueryEscape(s)
		},
	}

	views := []string{
		"auth/login.html",
		"auth/register.html",
		"comments/list.html",
		"user/profile.html",
		"chat/index.html",
		"error.html",
	}
	for _, name := range views {
		r.AddFromFilesFuncs(name, funcMap, assemble(templatesDir+"/views/"+name)...)
	}

	return r
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	}
	return plural(seconds/31536000, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
