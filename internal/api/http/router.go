package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Env           string
	AuthSecret    string
	AuthOptional  bool
	AllowOrigins  []string
	RateLimiter   *redis.Client
	Collaboration *CollaborationController
	Rules         *RuleController
	Analyses      *AnalysisController
	OAuth         *OAuthController
	Realtime      *RealtimeController
}

func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = deps.AllowOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))
	router.Use(SecurityHeaders())
	router.Use(RateLimit(deps.RateLimiter))

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"service": "codemind", "status": "ok"})
	})
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok", "env": deps.Env})
	})

	api := router.Group("/api")
	api.Use(Auth(deps.AuthSecret, deps.AuthOptional))

	if deps.Collaboration != nil {
		rooms := api.Group("/rooms")
		rooms.POST("", deps.Collaboration.CreateRoom)
		rooms.GET("", deps.Collaboration.ListRooms)
		rooms.POST("/:roomID/participants", deps.Collaboration.AddParticipant)
		rooms.POST("/:roomID/threads", deps.Collaboration.CreateThread)
		rooms.GET("/:roomID/threads", deps.Collaboration.ListThreads)

		threads := api.Group("/threads")
		threads.POST("/:threadID/comments", deps.Collaboration.CreateComment)
		threads.GET("/:threadID/comments", deps.Collaboration.ListComments)

		notifications := api.Group("/notifications")
		notifications.GET("", deps.Collaboration.ListNotifications)
		notifications.POST("/:notificationID/read", deps.Collaboration.MarkNotificationRead)
	}

	if deps.Realtime != nil {
		api.GET("/rooms/:roomID/ws", deps.Realtime.JoinRoom)
	}

	if deps.Rules != nil {
		rules := api.Group("/rules")
		rules.POST("", deps.Rules.CreateRule)
		rules.GET("", deps.Rules.ListRules)
		rules.POST("/feedback", deps.Rules.SaveFeedback)
	}

	if deps.Analyses != nil {
		analyses := api.Group("/analysis")
		analyses.POST("", deps.Analyses.Analyze)
		analyses.GET("/analytics", deps.Analyses.Analytics)
		analyses.GET("/recent", deps.Analyses.Recent)
	}

	if deps.OAuth != nil {
		api.GET("/oauth/connections", deps.OAuth.Connections)
		api.POST("/oauth/:provider/start", deps.OAuth.Start)
		api.GET("/integrations/:provider/repos", deps.OAuth.ListRepositories)

		// Provider redirect target. The browser arrives here without our
		// bearer token, so it sits outside the auth group.
		router.GET("/oauth/:provider/callback", deps.OAuth.Callback)
	}

	return router
}
