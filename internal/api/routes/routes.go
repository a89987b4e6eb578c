package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/callwatch/callwatch/internal/api/handlers"
	"github.com/callwatch/callwatch/internal/api/middleware"
)

type Deps struct {
	Auth     *handlers.AuthHandler
	Settings *handlers.SettingsHandler
	Agents   *handlers.AgentHandler
	Calls    *handlers.CallsHandler
	Interest *handlers.InterestHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public
	r.POST("/register", d.Auth.Register)
	r.POST("/token", d.Auth.Token)
	r.POST("/submit-interest", d.Interest.Submit)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.GET("/users/me", d.Auth.Me)

	auth.GET("/settings", d.Settings.Get)
	auth.POST("/settings", d.Settings.Submit)

	auth.GET("/agent-names", d.Agents.Names)
	auth.GET("/agents/:agent_id/daily-stats", d.Agents.DailyStats)
	auth.GET("/agents/:agent_id/daily-stats/export", d.Agents.ExportDailyStats)

	auth.GET("/calls", d.Calls.List)
	auth.GET("/calls/call_details/:call_id", d.Calls.Details)
	auth.GET("/calls/call_details/:call_id/raw", d.Calls.RawDetails)
	auth.POST("/calls/sync", d.Calls.Sync)

	auth.GET("/submit-interest/submissions", d.Interest.List)
}
