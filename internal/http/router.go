package api

import (
	"log"
	stdhttp "net/http"

	intconfig "drivingschool-backend/internal/config"
	h "drivingschool-backend/internal/http/handlers"
	"drivingschool-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.SetJWTSecret(env.JWTSecret)
	h.SetPaymentGateway(env.GatewayURL, env.GatewayAPIKey)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	jwtSecret := []byte(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", middleware.Auth(jwtSecret), middleware.RequireRoles("admin"), h.DBCheck)
		api.GET("/routes", middleware.Auth(jwtSecret), middleware.RequireRoles("admin"), h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Availability publik: calendar view tidak butuh login
		api.GET("/instructors/:id/availability", h.GetInstructorAvailability)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.Use(middleware.Auth(jwtSecret))
		bookings.GET("", h.GetBookings)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.GET("/:id/confirmation", h.GetBookingConfirmationPDF)
		bookings.POST("", h.CreateBooking)
		bookings.POST("/recurring", h.CreateRecurringBooking)
		bookings.PUT("/:id/cancel", h.CancelBooking)

		// Recurring series (rule + member bookings)
		api.GET("/series/:id", middleware.Auth(jwtSecret), h.GetSeriesByID)

		// Credits (read-only dari sisi scheduler)
		api.GET("/students/:id/credits", middleware.Auth(jwtSecret), h.GetStudentCredits)

		// Callback gateway pakai reference, bukan JWT
		api.POST("/payments/callback", h.PaymentCallback)
	}

	h.SetRouter(r)
	return r
}
