package routes

import (
	"shelterfund/internal/handlers"
	"shelterfund/internal/middleware"
	"shelterfund/pkg/metrics"
	"shelterfund/pkg/websocket"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Shelter   *handlers.ShelterHandler
	Donation  *handlers.DonationHandler
	Wallet    *handlers.WalletHandler
	Profile   *handlers.ProfileHandler
	WebSocket *websocket.Handler

	// WebSocketPath defaults to /ws.
	WebSocketPath string
}

// SetupRoutes registers every endpoint on r. tokens validates bearer tokens
// for the protected groups.
func SetupRoutes(r *gin.Engine, h *Handlers, tokens middleware.TokenValidator) {
	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if h.WebSocket != nil {
		wsPath := h.WebSocketPath
		if wsPath == "" {
			wsPath = "/ws"
		}
		r.GET(wsPath, middleware.WebSocketAuth(tokens), h.WebSocket.HandleWebSocket)
	}

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}
	v1.GET("/session", middleware.OptionalAuth(tokens), h.Auth.GetSession)

	// Browsing is public.
	v1.GET("/cities", h.Shelter.ListCities)
	shelters := v1.Group("/shelters")
	{
		shelters.GET("", h.Shelter.ListShelters)
		shelters.GET("/:id", h.Shelter.GetShelter)
		shelters.GET("/:id/animal-types", h.Shelter.ListAnimalTypes)
		shelters.GET("/:id/animals", h.Shelter.ListAnimals)
	}
	v1.GET("/donations/items", h.Donation.ListCatalog)

	protected := v1.Group("")
	protected.Use(middleware.AuthRequired(tokens))
	{
		animals := protected.Group("/animals")
		{
			animals.GET("/:id", h.Shelter.GetAnimal)
			animals.POST("/:id/donations", h.Donation.Donate)
			animals.POST("/:id/adoptions", h.Donation.Adopt)
		}

		me := protected.Group("/me")
		{
			me.GET("/donations", h.Donation.ListMyDonations)
			me.GET("/adoptions", h.Donation.ListMyAdoptions)
		}

		wallet := protected.Group("/wallet")
		{
			wallet.GET("", h.Wallet.GetWallet)
			wallet.POST("/deposit", h.Wallet.Deposit)
		}

		profile := protected.Group("/profile")
		{
			profile.GET("", h.Profile.GetProfile)
			profile.PUT("", h.Profile.UpdateProfile)
			profile.PUT("/city", h.Profile.SelectCity)
			profile.POST("/avatar", h.Profile.UploadAvatar)
			profile.PUT("/device-token", h.Profile.RegisterDeviceToken)
		}
	}
}
