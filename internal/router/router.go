package router

import (
	"yatube/internal/handlers"
	"yatube/internal/middleware"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SessionName is the cookie that carries the login session.
const SessionName = "yatube_session"

// Options configures the engine built by New.
type Options struct {
	SessionSecret string
	MediaRoot     string
	Templates     multitemplate.Render
}

// New builds the engine with sessions, templates and every route.
func New(deps *handlers.Deps, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 14 * 24 * 3600})
	r.Use(sessions.Sessions(SessionName, store))

	r.HTMLRender = opts.Templates
	r.Static("/media", opts.MediaRoot)

	r.Use(middleware.LoadUser(deps.Store))

	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps *handlers.Deps) {
	// Handlers
	authHandler := handlers.NewAuthHandler(deps)
	postHandler := handlers.NewPostHandler(deps)
	followHandler := handlers.NewFollowHandler(deps)

	// Public Routes
	r.GET("/", postHandler.Index)
	r.GET("/group/:slug/", postHandler.GroupPosts)
	r.GET("/profile/:username/", postHandler.Profile)
	r.GET("/posts/:id/", postHandler.Detail)

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authHandler.ShowSignup)
		auth.POST("/signup/", authHandler.Signup)
		auth.GET("/login/", authHandler.ShowLogin)
		auth.POST("/login/", authHandler.Login)
		auth.GET("/logout/", authHandler.Logout)
	}

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)
		authorized.POST("/create/", postHandler.Create)
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit/", postHandler.Update)
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)
		authorized.GET("/follow/", postHandler.FollowIndex)
		authorized.GET("/profile/:username/follow/", followHandler.ProfileFollow)
		authorized.GET("/profile/:username/unfollow/", followHandler.ProfileUnfollow)
	}

	r.NoRoute(handlers.NotFound)
}
