package routes

import (
	"github.com/gin-gonic/gin"

	"khao-backend/handlers"
	"khao-backend/middleware"
	"khao-backend/models"
	"khao-backend/token"
)

// Handlers bundles everything SetupRoutes needs to wire the API.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Restaurant *handlers.RestaurantHandler
	Admin      *handlers.AdminHandler
	Menu       *handlers.MenuHandler
	Public     *handlers.PublicHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, issuer *token.Issuer) {
	authRequired := middleware.AuthRequired(issuer)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/send-otp", h.Auth.SendOTP)
		public.POST("/auth/verify-otp", h.Auth.VerifyOTP)
		public.POST("/auth/refresh-token", h.Auth.RefreshToken)

		public.GET("/restaurants", h.Restaurant.List)
		public.GET("/restaurants/:id", h.Restaurant.Get)

		public.GET("/menu/restaurants/:restaurantId", h.Public.GetMenu)
		public.GET("/menu/restaurants/:restaurantId/search", h.Public.Search)
		public.GET("/menu/restaurants/:restaurantId/dietary/:tag", h.Public.ByDietaryTag)
		public.GET("/menu/restaurants/:restaurantId/bestsellers", h.Public.Bestsellers)
		public.GET("/menu/items/:itemId", h.Public.GetItem)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.GET("/auth/me", h.Auth.Me)
		auth.POST("/auth/logout", h.Auth.Logout)

		// Any verified account may register a restaurant; registration
		// promotes it to the restaurant role.
		auth.POST("/restaurants/register", h.Restaurant.Register)
	}

	// ── Restaurant owner routes ────────────────────────────────────
	owner := r.Group("/api")
	owner.Use(authRequired, middleware.RoleRequired(models.RoleRestaurant))
	{
		owner.GET("/restaurants/my-restaurant", h.Restaurant.MyRestaurant)
		owner.PUT("/restaurants/:id", h.Restaurant.Update)
		owner.PUT("/restaurants/:id/working-status", h.Restaurant.SetWorkingStatus)

		owner.POST("/menu/restaurants/:restaurantId/items", h.Menu.AddItem)
		owner.PUT("/menu/restaurants/:restaurantId/items/:itemId", h.Menu.UpdateItem)
		owner.DELETE("/menu/restaurants/:restaurantId/items/:itemId", h.Menu.DeleteItem)
		owner.PUT("/menu/restaurants/:restaurantId/items/:itemId/availability", h.Menu.ToggleAvailability)
		owner.GET("/menu/restaurants/:restaurantId/stats", h.Menu.Stats)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/restaurants")
	admin.Use(authRequired, middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/admin/pending", h.Admin.Pending)
		admin.POST("/:id/approve", h.Admin.Approve)
		admin.POST("/:id/reject", h.Admin.Reject)
		admin.POST("/:id/suspend", h.Admin.Suspend)
		admin.POST("/:id/reactivate", h.Admin.Reactivate)
	}
}
