package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleet/internal/domain"
	"fleet/internal/handler"
	"fleet/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	VehicleHandler *handler.VehicleHandler
	CargoHandler   *handler.CargoHandler
	TripHandler    *handler.TripHandler
	AlertHandler   *handler.AlertHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	JWTSecret      []byte
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.Default())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authn := middleware.AuthMiddleware(deps.JWTSecret)
	adminOnly := middleware.RequireRole(string(domain.UserRoleAdmin))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Auth routes.
		v1.POST("/auth/login", deps.AuthHandler.Login)

		// Alert routes. Raising is open so a telematics unit without an
		// operator token can still report.
		alerts := v1.Group("/alerts")
		{
			alerts.POST("", deps.AlertHandler.RaiseAlert)
			alerts.GET("", authn, deps.AlertHandler.ListAlerts)
		}

		// User routes. Admin only.
		users := v1.Group("/users", authn, adminOnly)
		{
			users.POST("", deps.UserHandler.CreateUser)
			users.GET("", deps.UserHandler.ListUsers)
			users.GET("/:id", deps.UserHandler.GetUser)
			users.PUT("/:id", deps.UserHandler.UpdateUser)
			users.DELETE("/:id", deps.UserHandler.DeleteUser)
		}

		// Vehicle routes.
		vehicles := v1.Group("/vehicles", authn)
		{
			vehicles.POST("", adminOnly, deps.VehicleHandler.CreateVehicle)
			vehicles.GET("", deps.VehicleHandler.ListVehicles)
			vehicles.GET("/locations", deps.VehicleHandler.ListFleetPositions)
			vehicles.GET("/nearby", deps.VehicleHandler.ListNearbyVehicles)
			vehicles.GET("/:plate", deps.VehicleHandler.GetVehicle)
			vehicles.PUT("/:plate", adminOnly, deps.VehicleHandler.UpdateVehicle)
			vehicles.PUT("/:plate/decommission", adminOnly, deps.VehicleHandler.DecommissionVehicle)
			vehicles.POST("/:plate/location", deps.VehicleHandler.UpdateLocation)
		}

		// Cargo routes.
		cargo := v1.Group("/cargo", authn)
		{
			cargo.POST("", deps.CargoHandler.CreateCargo)
			cargo.GET("", deps.CargoHandler.ListCargo)
			cargo.GET("/:id", deps.CargoHandler.GetCargo)
			cargo.GET("/:id/candidates", deps.CargoHandler.ListCandidates)
			cargo.POST("/:id/assign", deps.CargoHandler.AssignCargo)
			cargo.POST("/:id/trips", deps.CargoHandler.CreateTripForCargo)
		}

		// Trip routes.
		trips := v1.Group("/trips", authn)
		{
			trips.GET("", deps.TripHandler.ListTrips)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.GET("/:id/cargo", deps.TripHandler.ListTripCargo)
			trips.POST("/:id/depart", deps.TripHandler.DepartTrip)
			trips.POST("/:id/complete", deps.TripHandler.CompleteTrip)
		}
	}

	return router
}
