package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tripdesk-dev/tripdesk/internal/handlers"
	"github.com/tripdesk-dev/tripdesk/internal/middleware"
	"github.com/tripdesk-dev/tripdesk/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:trip_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/google", handlers.GoogleRedirect)
			auth.GET("/google/callback", handlers.GoogleCallback)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateUser)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteUser)
		}

		authed := api.Group("", middleware.AuthMiddleware())
		{
			trips := authed.Group("/trips")
			{
				trips.POST("", handlers.CreateTrip)
				trips.GET("", handlers.ListTrips)
				trips.GET("/:trip_id", handlers.GetTrip)
				trips.PATCH("/:trip_id", handlers.UpdateTrip)
				trips.DELETE("/:trip_id", handlers.DeleteTrip)

				// Child resources are created under their trip, then managed flat
				trips.GET("/:trip_id/documents", handlers.ListTripDocuments)
				trips.POST("/:trip_id/documents", handlers.CreateDocument)
				trips.POST("/:trip_id/tasks", handlers.CreateTask)
				trips.POST("/:trip_id/budgets", handlers.CreateBudget)
				trips.POST("/:trip_id/purchases", handlers.CreatePurchase)
				trips.POST("/:trip_id/housings", handlers.CreateHousing)
				trips.POST("/:trip_id/events", handlers.CreateEvent)
				trips.POST("/:trip_id/members", handlers.CreateTripMember)
			}

			authed.PUT("/documents/:document_id", handlers.UpdateDocument)
			authed.DELETE("/documents/:document_id", handlers.DeleteDocument)
			authed.PUT("/tasks/:task_id", handlers.UpdateTask)
			authed.DELETE("/tasks/:task_id", handlers.DeleteTask)
			authed.PUT("/budgets/:budget_id", handlers.UpdateBudget)
			authed.DELETE("/budgets/:budget_id", handlers.DeleteBudget)
			authed.PUT("/purchases/:purchase_id", handlers.UpdatePurchase)
			authed.DELETE("/purchases/:purchase_id", handlers.DeletePurchase)
			authed.PUT("/housings/:housing_id", handlers.UpdateHousing)
			authed.DELETE("/housings/:housing_id", handlers.DeleteHousing)
			authed.PUT("/events/:event_id", handlers.UpdateEvent)
			authed.DELETE("/events/:event_id", handlers.DeleteEvent)
			authed.DELETE("/trip-members/:member_id", handlers.DeleteTripMember)

			family := authed.Group("/family/members")
			{
				family.GET("", handlers.ListFamilyMembers)
				family.POST("", handlers.CreateFamilyMember)
				family.PUT("/:member_id", handlers.UpdateFamilyMember)
				family.DELETE("/:member_id", handlers.DeleteFamilyMember)
			}

			shopping := authed.Group("/shopping")
			{
				shopping.GET("", handlers.ListShoppingItems)
				shopping.POST("", handlers.CreateShoppingItem)
				shopping.PUT("/:item_id", handlers.UpdateShoppingItem)
				shopping.DELETE("/:item_id", handlers.DeleteShoppingItem)
			}

			checklist := authed.Group("/checklist")
			{
				checklist.GET("", handlers.ListChecklistTasks)
				checklist.POST("", handlers.CreateChecklistTask)
				checklist.PUT("/:task_id", handlers.UpdateChecklistTask)
				checklist.DELETE("/:task_id", handlers.DeleteChecklistTask)
			}
		}
	}

	return r
}
