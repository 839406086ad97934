package routes

import (
	"time"

	"astrobook/handlers"
	"astrobook/middleware"
	"astrobook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterProviderRoutes registers the public calendar endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.GET("/:providerId/availability", hb.GetAvailabilityHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware())
		bookingGroup.POST("", middleware.RequireRole(utils.RoleCustomer), hb.CreateBookingHandler)
		bookingGroup.GET("/:id", hb.GetBookingHandler)
		bookingGroup.POST("/:id/reschedule", hb.RescheduleHandler)
		bookingGroup.POST("/:id/cancel", middleware.RequireRole(utils.RoleCustomer, utils.RoleAdmin), hb.CancelBookingHandler)

		// Provider decisions.
		bookingGroup.POST("/:id/accept", middleware.RequireRole(utils.RoleProvider), hb.AcceptBookingHandler)
		bookingGroup.POST("/:id/reject", middleware.RequireRole(utils.RoleProvider), hb.RejectBookingHandler)
	}
}

// RegisterSessionRoutes registers live consultation endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.JWTAuthMiddleware(utils.RoleCustomer, utils.RoleProvider))
		api.POST("/:id/start", hb.StartSessionHandler)
		api.POST("/:id/stop", hb.StopSessionHandler)
	}
}

// RegisterAdminRoutes registers operator endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.JWTAuthMiddleware(utils.RoleAdmin))
		api.POST("/blocks", hb.BlockSlotHandler)
		api.DELETE("/blocks/:id", hb.ReleaseBlockHandler)
		api.PUT("/providers/:id", hb.UpsertProviderHandler)
	}
}

// RegisterPaymentRoutes registers the Stripe webhook. Stripe authenticates
// with its signature header, not a bearer token.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/webhook", hb.PaymentWebhookHandler)
}

// RegisterRoutes sets up all API routes.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
