package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"howtoplatform/internal/middleware"
)

type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Lessons    *LessonHandler
	Favorites  *FavoriteHandler
	Categories *CategoryHandler
	Forum      *ForumHandler
}

func NewRouter(h Handlers, auth middleware.Authenticator, limiter *middleware.RateLimiter, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", limiter.Limit("register", 10, time.Minute), h.Auth.Register)
			authGroup.POST("/login", limiter.Limit("login", 5, time.Minute), h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", h.Auth.Logout)
		}

		public := api.Group("")
		public.Use(middleware.OptionalAuth(auth))
		{
			public.GET("/lessons", h.Lessons.List)
			public.GET("/lessons/:id", h.Lessons.GetOne)
			public.GET("/users/:id/lessons", h.Lessons.ListByAuthor)

			public.GET("/categories", h.Categories.List)
			public.GET("/categories/:id", h.Categories.GetOne)
			public.GET("/categories/:id/lessons", h.Categories.Lessons)

			public.GET("/roles", h.Users.Roles)

			public.GET("/topics", h.Forum.ListTopics)
			public.GET("/topics/:id", h.Forum.GetTopic)
		}

		private := api.Group("")
		private.Use(middleware.AuthMiddleware(auth))
		{
			private.POST("/lessons", h.Lessons.Create)
			private.PUT("/lessons/:id", h.Lessons.Replace)
			private.PATCH("/lessons/:id/publish", h.Lessons.Publish)
			private.DELETE("/lessons/:id", h.Lessons.Delete)

			private.GET("/me/favorites", h.Favorites.List)
			private.POST("/lessons/:id/favorite", h.Favorites.Add)
			private.DELETE("/lessons/:id/favorite", h.Favorites.Remove)

			private.POST("/categories", h.Categories.Create)
			private.PUT("/categories/:id", h.Categories.Update)
			private.DELETE("/categories/:id", h.Categories.Delete)

			private.POST("/topics", h.Forum.CreateTopic)
			private.PUT("/topics/:id", h.Forum.UpdateTopic)
			private.DELETE("/topics/:id", h.Forum.DeleteTopic)
			private.POST("/topics/:id/replies", h.Forum.CreateReply)
			private.PUT("/replies/:id", h.Forum.UpdateReply)
			private.DELETE("/replies/:id", h.Forum.DeleteReply)

			private.GET("/users", h.Users.List)
			private.GET("/users/:id", h.Users.GetOne)
			private.PUT("/users/:id", h.Users.Update)
			private.PATCH("/users/:id/role", h.Users.ChangeRole)
			private.DELETE("/users/:id", h.Users.Delete)
		}
	}

	return r
}
