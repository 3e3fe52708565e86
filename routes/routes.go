package routes

import (
	"time"

	"dinesphere-backend/config"
	"dinesphere-backend/handlers"
	"dinesphere-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	restaurantHandler := &handlers.RestaurantHandler{DB: db}
	menuHandler := &handlers.MenuHandler{DB: db}
	reservationHandler := &handlers.ReservationHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db}
	paymentHandler := &handlers.PaymentHandler{DB: db}
	reviewHandler := &handlers.ReviewHandler{DB: db}
	loyaltyHandler := &handlers.LoyaltyHandler{DB: db}
	favoriteHandler := &handlers.FavoriteHandler{DB: db}
	notificationHandler := &handlers.NotificationHandler{DB: db}
	cartHandler := &handlers.CartHandler{DB: db}

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes (rate limited)
		auth := api.Group("/auth")
		auth.Use(authLimiter.Middleware())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/register-restaurant", authHandler.RegisterRestaurant)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshTokenHandler)
		}

		// Public restaurant browsing (cached)
		api.GET("/restaurants", cache, restaurantHandler.GetRestaurants)
		api.GET("/restaurants/:id", cache, restaurantHandler.GetRestaurant)
		api.GET("/restaurants/:id/menu", cache, menuHandler.GetMenuByRestaurant)
		api.GET("/restaurants/:id/categories", cache, menuHandler.GetCategoriesByRestaurant)
		api.GET("/restaurants/:id/reviews", reviewHandler.GetReviewsByRestaurant)
		api.GET("/restaurants/:id/reviews/stats", reviewHandler.GetReviewStats)
		api.GET("/menu-items/:id", menuHandler.GetMenuItem)

		// Public reward catalog (cached)
		api.GET("/loyalty/rewards", cache, loyaltyHandler.GetRewards)
		api.GET("/loyalty/rewards/:id", loyaltyHandler.GetReward)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		// Profile
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/profile", authHandler.UpdateProfile)
		protected.PUT("/auth/change-password", authHandler.ChangePassword)

		// Reservations
		protected.POST("/reservations", reservationHandler.CreateReservation)
		protected.GET("/reservations/my", reservationHandler.GetReservationsByUser)
		protected.GET("/reservations/:id", reservationHandler.GetReservation)
		protected.PUT("/reservations/:id", reservationHandler.UpdateReservation)
		protected.PATCH("/reservations/:id/cancel", reservationHandler.CancelReservation)
		protected.DELETE("/reservations/:id", reservationHandler.DeleteReservation)

		// Orders
		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders/my", orderHandler.GetOrdersByUser)
		protected.GET("/orders/:id", orderHandler.GetOrder)

		// Payments
		protected.POST("/payments", paymentHandler.CreatePayment)
		protected.GET("/payments/my", paymentHandler.GetPaymentsByUser)
		protected.GET("/payments/order/:orderId", paymentHandler.GetPaymentsByOrder)

		// Reviews
		protected.POST("/reviews", reviewHandler.CreateReview)
		protected.GET("/reviews/my", reviewHandler.GetReviewsByUser)
		protected.GET("/reviews/:id", reviewHandler.GetReview)
		protected.PUT("/reviews/:id", reviewHandler.UpdateReview)
		protected.DELETE("/reviews/:id", reviewHandler.DeleteReview)

		// Loyalty
		// Admin-only point adjustments live under the loyalty prefix rather
		// than /admin so the path matches the rest of the ledger surface.
		protected.POST("/loyalty/points/add", middleware.AdminMiddleware(), loyaltyHandler.AddPointsManual)
		protected.POST("/loyalty/points/deduct", middleware.AdminMiddleware(), loyaltyHandler.DeductPointsManual)
		protected.GET("/loyalty/points", loyaltyHandler.GetUserPoints)
		protected.GET("/loyalty/points/history", loyaltyHandler.GetPointsHistory)
		protected.GET("/loyalty/rewards/available", loyaltyHandler.GetAvailableRewards)
		protected.POST("/loyalty/rewards/:id/redeem", loyaltyHandler.RedeemReward)
		protected.GET("/loyalty/redemptions", loyaltyHandler.GetUserRedemptions)
		protected.PUT("/loyalty/redemptions/:id/use", loyaltyHandler.UseRedemption)

		// Favorites
		protected.GET("/favorites", favoriteHandler.GetFavorites)
		protected.POST("/favorites", favoriteHandler.AddFavorite)
		protected.DELETE("/favorites/:restaurantId", favoriteHandler.RemoveFavorite)
		protected.GET("/favorites/:restaurantId/check", favoriteHandler.CheckFavorite)

		// Notifications
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
		protected.GET("/notifications/preferences", notificationHandler.GetPreferences)
		protected.PUT("/notifications/preferences", notificationHandler.UpdatePreferences)

		// Carts
		protected.GET("/carts/restaurant/:restaurantId", cartHandler.GetCart)
		protected.POST("/carts/items", cartHandler.AddItem)
		protected.PUT("/carts/items/:itemId", cartHandler.UpdateItem)
		protected.DELETE("/carts/items/:itemId", cartHandler.RemoveItem)
		protected.GET("/carts/:cartId/total", cartHandler.GetCartTotal)
		protected.DELETE("/carts/:cartId/items", cartHandler.ClearCart)
		protected.DELETE("/carts/:cartId", cartHandler.DeleteCart)
	}

	// Owner routes (restaurant owner or admin)
	owner := api.Group("/owner")
	owner.Use(middleware.AuthMiddleware())
	owner.Use(middleware.OwnerMiddleware())
	{
		owner.GET("/restaurants/:ownerId", restaurantHandler.GetRestaurantsByOwner)
		owner.POST("/menu-items", menuHandler.CreateMenuItem)
		owner.PUT("/menu-items/:id", menuHandler.UpdateMenuItem)
		owner.DELETE("/menu-items/:id", menuHandler.DeleteMenuItem)
		owner.GET("/reservations/restaurant/:restaurantId", reservationHandler.GetReservationsByRestaurant)
		owner.GET("/orders/restaurant/:restaurantId", orderHandler.GetOrdersByRestaurant)
		owner.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// User management
		admin.GET("/users", userHandler.ListUsers)
		admin.GET("/users/:id", userHandler.GetUser)
		admin.PUT("/users/:id", userHandler.UpdateUser)

		// Restaurant management
		admin.POST("/restaurants", restaurantHandler.CreateRestaurant)
		admin.PUT("/restaurants/:id", restaurantHandler.UpdateRestaurant)
		admin.DELETE("/restaurants/:id", restaurantHandler.DeleteRestaurant)
		admin.POST("/restaurants/:id/refresh-rating", restaurantHandler.RefreshRestaurantRating)

		// Reservation management
		admin.GET("/reservations", reservationHandler.GetReservations)
		admin.PUT("/reservations/:id/status", reservationHandler.UpdateReservationStatus)

		// Order management
		admin.GET("/orders", orderHandler.GetOrders)
		admin.DELETE("/orders/:id", orderHandler.DeleteOrder)

		// Payment management
		admin.GET("/payments", paymentHandler.GetPayments)
		admin.GET("/payments/:id", paymentHandler.GetPayment)
		admin.PUT("/payments/:id/status", paymentHandler.UpdatePaymentStatus)
		admin.DELETE("/payments/:id", paymentHandler.DeletePayment)

		// Loyalty management
		admin.PUT("/loyalty/redemptions/:id/status", loyaltyHandler.UpdateRedemptionStatus)

		// Notification management
		admin.POST("/notifications", notificationHandler.CreateNotification)
	}
}
