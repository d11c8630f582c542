package routes

import (
	"net/http"

	"github.com/vivmuk/caloriecounter/config"
	"github.com/vivmuk/caloriecounter/controllers"
	"github.com/vivmuk/caloriecounter/metrics"
	"github.com/vivmuk/caloriecounter/middlewares"

	"github.com/gin-gonic/gin"
)

// Controllers carries everything SetupRouter wires up.
type Controllers struct {
	Analyze  *controllers.AnalyzeController
	Compare  *controllers.CompareController
	Models   *controllers.ModelController
	Realtime *controllers.RealtimeController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Accounts exist only when a database is configured.
	if config.DB != nil {
		auth := r.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}
	}

	// Analysis works anonymously; a valid token attributes the result to
	// the user and saves it to history.
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) { metrics.IncrementHTTPRequests(); c.Next() })
	api.Use(middlewares.OptionalAuth())
	{
		api.POST("/analyze", ctl.Analyze.Analyze)
		api.POST("/compare", ctl.Compare.CompareModels)
		api.GET("/models", ctl.Models.ListModels)
	}

	if config.DB != nil {
		protected := r.Group("/api/v1")
		protected.Use(middlewares.AuthMiddleware())
		{
			protected.GET("/user/profile", controllers.GetProfile)
			protected.PUT("/user/profile", controllers.UpdateProfile)
			protected.GET("/analyses", controllers.ListAnalyses)
			protected.GET("/analyses/:id", controllers.GetAnalysis)
			protected.DELETE("/analyses/:id", controllers.DeleteAnalysis)
		}

		ws := r.Group("/ws")
		ws.Use(middlewares.AuthMiddleware())
		{
			ws.GET("/analyses", ctl.Realtime.AnalysesWS)
		}
	}

	// Static path for dev
	r.POST("/dev/upload", controllers.DevUploadImage)

	return r
}
