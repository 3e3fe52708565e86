package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"dinesphere-backend/middleware"
	"dinesphere-backend/models"
	"dinesphere-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access issues
	// with in-memory databases. All goroutines share the same connection and
	// see the same tables.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Create tables using raw SQLite-compatible SQL instead of AutoMigrate,
	// because the GORM model tags use PostgreSQL-specific defaults like gen_random_uuid().
	if err := createSQLiteTables(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in correct order to respect foreign keys
	testDB.Exec("DELETE FROM points_history")
	testDB.Exec("DELETE FROM reward_redemptions")
	testDB.Exec("DELETE FROM loyalty_points")
	testDB.Exec("DELETE FROM rewards")
	testDB.Exec("DELETE FROM payments")
	testDB.Exec("DELETE FROM order_items")
	testDB.Exec("DELETE FROM orders")
	testDB.Exec("DELETE FROM cart_items")
	testDB.Exec("DELETE FROM carts")
	testDB.Exec("DELETE FROM reviews")
	testDB.Exec("DELETE FROM user_favorites")
	testDB.Exec("DELETE FROM notifications")
	testDB.Exec("DELETE FROM notification_preferences")
	testDB.Exec("DELETE FROM reservations")
	testDB.Exec("DELETE FROM menu_items")
	testDB.Exec("DELETE FROM menu_categories")
	testDB.Exec("DELETE FROM restaurants")
	testDB.Exec("DELETE FROM users")
	return testDB
}

// createSQLiteTables creates all tables with SQLite-compatible DDL.
func createSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"full_name" TEXT,
			"phone" TEXT,
			"role" TEXT DEFAULT 'customer',
			"is_active" INTEGER DEFAULT 1,
			"dietary_preferences" TEXT,
			"address" TEXT,
			"bio" TEXT,
			"avatar_url" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_deleted_at ON "users"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "restaurants" (
			"id" TEXT PRIMARY KEY,
			"owner_id" TEXT,
			"name" TEXT NOT NULL,
			"description" TEXT,
			"website" TEXT,
			"cuisine" TEXT,
			"rating" REAL DEFAULT 0,
			"review_count" INTEGER DEFAULT 0,
			"price_range" TEXT,
			"min_price" REAL DEFAULT 0,
			"max_price" REAL DEFAULT 0,
			"location" TEXT,
			"image" TEXT,
			"open_time" TEXT,
			"available_slots" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_restaurants_owner FOREIGN KEY ("owner_id") REFERENCES "users"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_deleted_at ON "restaurants"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_owner_id ON "restaurants"("owner_id")`,

		`CREATE TABLE IF NOT EXISTS "menu_categories" (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"restaurant_id" TEXT NOT NULL,
			"name" TEXT NOT NULL,
			"position" INTEGER DEFAULT 0,
			CONSTRAINT fk_menu_categories_restaurant FOREIGN KEY ("restaurant_id") REFERENCES "restaurants"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_categories_restaurant_id ON "menu_categories"("restaurant_id")`,

		`CREATE TABLE IF NOT EXISTS "menu_items" (
			"id" TEXT PRIMARY KEY,
			"restaurant_id" TEXT NOT NULL,
			"category_id" INTEGER,
			"name" TEXT NOT NULL,
			"description" TEXT,
			"price" REAL NOT NULL,
			"currency" TEXT DEFAULT 'INR',
			"is_available" INTEGER DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_menu_items_restaurant FOREIGN KEY ("restaurant_id") REFERENCES "restaurants"("id"),
			CONSTRAINT fk_menu_items_category FOREIGN KEY ("category_id") REFERENCES "menu_categories"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_deleted_at ON "menu_items"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant_id ON "menu_items"("restaurant_id")`,

		`CREATE TABLE IF NOT EXISTS "reservations" (
			"id" TEXT PRIMARY KEY,
			"restaurant_id" TEXT NOT NULL,
			"user_id" TEXT NOT NULL,
			"party_size" INTEGER NOT NULL,
			"status" TEXT DEFAULT 'pending',
			"reservation_start" DATETIME NOT NULL,
			"reservation_end" DATETIME,
			"special_requests" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_reservations_restaurant FOREIGN KEY ("restaurant_id") REFERENCES "restaurants"("id"),
			CONSTRAINT fk_reservations_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_deleted_at ON "reservations"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_restaurant_id ON "reservations"("restaurant_id")`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON "reservations"("user_id")`,

		`CREATE TABLE IF NOT EXISTS "orders" (
			"id" TEXT PRIMARY KEY,
			"restaurant_id" TEXT NOT NULL,
			"user_id" TEXT NOT NULL,
			"total_amount" REAL NOT NULL DEFAULT 0,
			"status" TEXT DEFAULT 'created',
			"order_type" TEXT DEFAULT 'dine_in',
			"special_instructions" TEXT,
			"delivery_address" TEXT,
			"points_earned" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_orders_restaurant FOREIGN KEY ("restaurant_id") REFERENCES "restaurants"("id"),
			CONSTRAINT fk_orders_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_deleted_at ON "orders"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON "orders"("user_id")`,

		`CREATE TABLE IF NOT EXISTS "order_items" (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"order_id" TEXT NOT NULL,
			"menu_item_id" TEXT NOT NULL,
			"quantity" INTEGER DEFAULT 1,
			"unit_price" REAL,
			"total_price" REAL,
			CONSTRAINT fk_order_items_order FOREIGN KEY ("order_id") REFERENCES "orders"("id"),
			CONSTRAINT fk_order_items_menu_item FOREIGN KEY ("menu_item_id") REFERENCES "menu_items"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON "order_items"("order_id")`,

		`CREATE TABLE IF NOT EXISTS "payments" (
			"id" TEXT PRIMARY KEY,
			"order_id" TEXT,
			"amount" REAL NOT NULL,
			"currency" TEXT DEFAULT 'INR',
			"provider" TEXT,
			"provider_payment_id" TEXT,
			"status" TEXT DEFAULT 'pending',
			"notes" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_payments_order FOREIGN KEY ("order_id") REFERENCES "orders"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_deleted_at ON "payments"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "reviews" (
			"id" TEXT PRIMARY KEY,
			"restaurant_id" TEXT NOT NULL,
			"user_id" TEXT NOT NULL,
			"rating" INTEGER NOT NULL,
			"comment" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME,
			CONSTRAINT fk_reviews_restaurant FOREIGN KEY ("restaurant_id") REFERENCES "restaurants"("id"),
			CONSTRAINT fk_reviews_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_deleted_at ON "reviews"("deleted_at")`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_restaurant_id ON "reviews"("restaurant_id")`,

		`CREATE TABLE IF NOT EXISTS "loyalty_points" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL UNIQUE,
			"points" INTEGER NOT NULL DEFAULT 0,
			"tier" TEXT NOT NULL DEFAULT 'bronze',
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_loyalty_points_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,

		`CREATE TABLE IF NOT EXISTS "points_history" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"points" INTEGER NOT NULL,
			"action" TEXT NOT NULL,
			"reference_id" TEXT,
			"reference_type" TEXT,
			"created_at" DATETIME,
			CONSTRAINT fk_points_history_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_history_user_id ON "points_history"("user_id")`,

		`CREATE TABLE IF NOT EXISTS "rewards" (
			"id" TEXT PRIMARY KEY,
			"title" TEXT NOT NULL,
			"description" TEXT,
			"points_required" INTEGER NOT NULL,
			"category" TEXT NOT NULL,
			"valid_days" INTEGER DEFAULT 30,
			"restaurant_type" TEXT DEFAULT 'all',
			"is_active" INTEGER DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rewards_deleted_at ON "rewards"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "reward_redemptions" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"reward_id" TEXT NOT NULL,
			"points_spent" INTEGER NOT NULL,
			"status" TEXT NOT NULL DEFAULT 'active',
			"redeemed_at" DATETIME,
			"expires_at" DATETIME,
			"used_at" DATETIME,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_reward_redemptions_user FOREIGN KEY ("user_id") REFERENCES "users"("id"),
			CONSTRAINT fk_reward_redemptions_reward FOREIGN KEY ("reward_id") REFERENCES "rewards"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reward_redemptions_user_id ON "reward_redemptions"("user_id")`,
		`CREATE INDEX IF NOT EXISTS idx_reward_redemptions_status ON "reward_redemptions"("status")`,

		`CREATE TABLE IF NOT EXISTS "notifications" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"type" TEXT NOT NULL,
			"title" TEXT NOT NULL,
			"message" TEXT NOT NULL,
			"reference_id" TEXT,
			"reference_type" TEXT,
			"is_read" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_notifications_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON "notifications"("user_id")`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_is_read ON "notifications"("is_read")`,

		`CREATE TABLE IF NOT EXISTS "notification_preferences" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL UNIQUE,
			"push_notifications" INTEGER DEFAULT 1,
			"email_notifications" INTEGER DEFAULT 1,
			"sms_notifications" INTEGER DEFAULT 0,
			"booking_updates" INTEGER DEFAULT 1,
			"order_status" INTEGER DEFAULT 1,
			"promotions" INTEGER DEFAULT 1,
			"loyalty_rewards" INTEGER DEFAULT 1,
			"review_reminders" INTEGER DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_notification_preferences_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
		)`,

		`CREATE TABLE IF NOT EXISTS "user_favorites" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"restaurant_id" TEXT NOT NULL,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_user_favorites_user FOREIGN KEY ("user_id") REFERENCES "users"("id"),
			CONSTRAINT fk_user_favorites_restaurant FOREIGN KEY ("restaurant_id") REFERENCES "restaurants"("id")
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_restaurant ON "user_favorites"("user_id","restaurant_id")`,

		`CREATE TABLE IF NOT EXISTS "carts" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"restaurant_id" TEXT NOT NULL,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_carts_user FOREIGN KEY ("user_id") REFERENCES "users"("id"),
			CONSTRAINT fk_carts_restaurant FOREIGN KEY ("restaurant_id") REFERENCES "restaurants"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_carts_user_id ON "carts"("user_id")`,

		`CREATE TABLE IF NOT EXISTS "cart_items" (
			"id" TEXT PRIMARY KEY,
			"cart_id" TEXT NOT NULL,
			"menu_item_id" TEXT NOT NULL,
			"quantity" INTEGER NOT NULL DEFAULT 1,
			"unit_price" REAL NOT NULL,
			"special_requests" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_cart_items_cart FOREIGN KEY ("cart_id") REFERENCES "carts"("id"),
			CONSTRAINT fk_cart_items_menu_item FOREIGN KEY ("menu_item_id") REFERENCES "menu_items"("id")
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_menu_item ON "cart_items"("cart_id","menu_item_id")`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// ==================== Seed Helpers ====================

// seedTestUser creates a user with the given role and returns it along with a valid JWT token.
func seedTestUser(db *gorm.DB, email, role string) (models.User, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
	db.Create(&user)

	token, _ := utils.GenerateToken(user.ID, user.Email, user.Role)
	return user, token
}

// seedRestaurant creates a restaurant with the given slot capacity.
func seedRestaurant(db *gorm.DB, name string, slots int) models.Restaurant {
	restaurant := models.Restaurant{
		ID:             uuid.New(),
		Name:           name,
		Cuisine:        "Italian",
		Location:       "Downtown",
		MinPrice:       200,
		MaxPrice:       1500,
		AvailableSlots: slots,
	}
	db.Create(&restaurant)
	// Explicitly update available_slots since GORM may skip the zero value
	// during Create and let the column default win.
	db.Model(&restaurant).Update("available_slots", slots)
	return restaurant
}

// seedMenuItem creates a menu item for a restaurant.
func seedMenuItem(db *gorm.DB, restaurantID uuid.UUID, name string, price float64) models.MenuItem {
	item := models.MenuItem{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         name,
		Price:        price,
		IsAvailable:  true,
	}
	db.Create(&item)
	return item
}

// seedReservation creates a reservation in the given status without touching
// the restaurant's slot counter.
func seedReservation(db *gorm.DB, userID, restaurantID uuid.UUID, status models.ReservationStatus) models.Reservation {
	reservation := models.Reservation{
		ID:               uuid.New(),
		RestaurantID:     restaurantID,
		UserID:           userID,
		PartySize:        2,
		Status:           status,
		ReservationStart: time.Now().Add(24 * time.Hour),
	}
	db.Create(&reservation)
	db.Model(&reservation).Update("status", status)
	return reservation
}

// seedReward creates an active reward.
func seedReward(db *gorm.DB, title string, pointsRequired, validDays int) models.Reward {
	reward := models.Reward{
		ID:             uuid.New(),
		Title:          title,
		PointsRequired: pointsRequired,
		Category:       "food",
		ValidDays:      validDays,
		IsActive:       true,
	}
	db.Create(&reward)
	return reward
}

// seedLoyaltyAccount creates a loyalty account with a balance and a single
// matching history row so the ledger invariant holds.
func seedLoyaltyAccount(db *gorm.DB, userID uuid.UUID, points int) models.LoyaltyAccount {
	account := models.LoyaltyAccount{
		ID:     uuid.New(),
		UserID: userID,
		Points: points,
		Tier:   "bronze",
	}
	db.Create(&account)
	if points != 0 {
		db.Create(&models.PointsHistory{
			ID:     uuid.New(),
			UserID: userID,
			Points: points,
			Action: "seed",
		})
	}
	return account
}

// seedRedemption creates a redemption in the given status.
func seedRedemption(db *gorm.DB, userID, rewardID uuid.UUID, status models.RedemptionStatus, expiresAt time.Time) models.RewardRedemption {
	redemption := models.RewardRedemption{
		ID:          uuid.New(),
		UserID:      userID,
		RewardID:    rewardID,
		PointsSpent: 100,
		Status:      status,
		RedeemedAt:  time.Now(),
		ExpiresAt:   &expiresAt,
	}
	db.Create(&redemption)
	db.Model(&redemption).Update("status", status)
	return redemption
}

// seedReview creates a review.
func seedReview(db *gorm.DB, userID, restaurantID uuid.UUID, rating int) models.Review {
	review := models.Review{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		UserID:       userID,
		Rating:       rating,
		Comment:      "test review",
	}
	db.Create(&review)
	return review
}

// seedNotification creates a notification.
func seedNotification(db *gorm.DB, userID uuid.UUID, isRead bool) models.Notification {
	n := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    "booking",
		Title:   "Test",
		Message: "Test message",
		IsRead:  isRead,
	}
	db.Create(&n)
	db.Model(&n).Update("is_read", isRead)
	return n
}

// ==================== Router Setup Helpers ====================

// setupReservationRouter sets up routes for reservation handler tests.
func setupReservationRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	reservationHandler := &ReservationHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/reservations", reservationHandler.CreateReservation)
	protected.GET("/reservations/my", reservationHandler.GetReservationsByUser)
	protected.GET("/reservations/:id", reservationHandler.GetReservation)
	protected.PUT("/reservations/:id", reservationHandler.UpdateReservation)
	protected.PATCH("/reservations/:id/cancel", reservationHandler.CancelReservation)
	protected.DELETE("/reservations/:id", reservationHandler.DeleteReservation)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/reservations", reservationHandler.GetReservations)
	admin.PUT("/reservations/:id/status", reservationHandler.UpdateReservationStatus)

	return r
}

// setupLoyaltyRouter sets up routes for loyalty handler tests.
func setupLoyaltyRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	loyaltyHandler := &LoyaltyHandler{DB: db}

	api := r.Group("/api")
	api.GET("/loyalty/rewards", loyaltyHandler.GetRewards)
	api.GET("/loyalty/rewards/:id", loyaltyHandler.GetReward)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/loyalty/points/add", middleware.AdminMiddleware(), loyaltyHandler.AddPointsManual)
	protected.POST("/loyalty/points/deduct", middleware.AdminMiddleware(), loyaltyHandler.DeductPointsManual)
	protected.GET("/loyalty/points", loyaltyHandler.GetUserPoints)
	protected.GET("/loyalty/points/history", loyaltyHandler.GetPointsHistory)
	protected.GET("/loyalty/rewards/available", loyaltyHandler.GetAvailableRewards)
	protected.POST("/loyalty/rewards/:id/redeem", loyaltyHandler.RedeemReward)
	protected.GET("/loyalty/redemptions", loyaltyHandler.GetUserRedemptions)
	protected.PUT("/loyalty/redemptions/:id/use", loyaltyHandler.UseRedemption)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.PUT("/loyalty/redemptions/:id/status", loyaltyHandler.UpdateRedemptionStatus)

	return r
}

// setupAuthRouter sets up routes for auth handler tests.
func setupAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	authHandler := &AuthHandler{DB: db}

	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/register-restaurant", authHandler.RegisterRestaurant)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.RefreshTokenHandler)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/auth/profile", authHandler.GetProfile)
	protected.PUT("/auth/profile", authHandler.UpdateProfile)
	protected.PUT("/auth/change-password", authHandler.ChangePassword)

	return r
}

// setupUserRouter sets up routes for user management handler tests.
func setupUserRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	userHandler := &UserHandler{DB: db}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/users", userHandler.ListUsers)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.PUT("/users/:id", userHandler.UpdateUser)

	return r
}

// setupRestaurantRouter sets up routes for restaurant handler tests.
func setupRestaurantRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	restaurantHandler := &RestaurantHandler{DB: db}

	api := r.Group("/api")
	api.GET("/restaurants", restaurantHandler.GetRestaurants)
	api.GET("/restaurants/:id", restaurantHandler.GetRestaurant)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/restaurants", restaurantHandler.CreateRestaurant)
	admin.PUT("/restaurants/:id", restaurantHandler.UpdateRestaurant)
	admin.DELETE("/restaurants/:id", restaurantHandler.DeleteRestaurant)
	admin.POST("/restaurants/:id/refresh-rating", restaurantHandler.RefreshRestaurantRating)

	return r
}

// setupMenuRouter sets up routes for menu handler tests.
func setupMenuRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	menuHandler := &MenuHandler{DB: db}

	api := r.Group("/api")
	api.GET("/restaurants/:id/menu", menuHandler.GetMenuByRestaurant)
	api.GET("/restaurants/:id/categories", menuHandler.GetCategoriesByRestaurant)
	api.GET("/menu-items/:id", menuHandler.GetMenuItem)

	owner := api.Group("/owner")
	owner.Use(middleware.AuthMiddleware())
	owner.Use(middleware.OwnerMiddleware())
	owner.POST("/menu-items", menuHandler.CreateMenuItem)
	owner.PUT("/menu-items/:id", menuHandler.UpdateMenuItem)
	owner.DELETE("/menu-items/:id", menuHandler.DeleteMenuItem)

	return r
}

// setupOrderRouter sets up routes for order handler tests.
func setupOrderRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	orderHandler := &OrderHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/orders", orderHandler.CreateOrder)
	protected.GET("/orders/my", orderHandler.GetOrdersByUser)
	protected.GET("/orders/:id", orderHandler.GetOrder)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/orders", orderHandler.GetOrders)

	owner := api.Group("/owner")
	owner.Use(middleware.AuthMiddleware())
	owner.Use(middleware.OwnerMiddleware())
	owner.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

	return r
}

// setupReviewRouter sets up routes for review handler tests.
func setupReviewRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	reviewHandler := &ReviewHandler{DB: db}

	api := r.Group("/api")
	api.GET("/restaurants/:id/reviews", reviewHandler.GetReviewsByRestaurant)
	api.GET("/restaurants/:id/reviews/stats", reviewHandler.GetReviewStats)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/reviews", reviewHandler.CreateReview)
	protected.PUT("/reviews/:id", reviewHandler.UpdateReview)
	protected.DELETE("/reviews/:id", reviewHandler.DeleteReview)

	return r
}

// setupFavoriteRouter sets up routes for favorite handler tests.
func setupFavoriteRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	favoriteHandler := &FavoriteHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/favorites", favoriteHandler.GetFavorites)
	protected.POST("/favorites", favoriteHandler.AddFavorite)
	protected.DELETE("/favorites/:restaurantId", favoriteHandler.RemoveFavorite)
	protected.GET("/favorites/:restaurantId/check", favoriteHandler.CheckFavorite)

	return r
}

// setupNotificationRouter sets up routes for notification handler tests.
func setupNotificationRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	notificationHandler := &NotificationHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/notifications", notificationHandler.GetNotifications)
	protected.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
	protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
	protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	protected.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
	protected.GET("/notifications/preferences", notificationHandler.GetPreferences)
	protected.PUT("/notifications/preferences", notificationHandler.UpdatePreferences)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/notifications", notificationHandler.CreateNotification)

	return r
}

// setupCartRouter sets up routes for cart handler tests.
func setupCartRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	cartHandler := &CartHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/carts/restaurant/:restaurantId", cartHandler.GetCart)
	protected.POST("/carts/items", cartHandler.AddItem)
	protected.PUT("/carts/items/:itemId", cartHandler.UpdateItem)
	protected.DELETE("/carts/items/:itemId", cartHandler.RemoveItem)
	protected.GET("/carts/:cartId/total", cartHandler.GetCartTotal)
	protected.DELETE("/carts/:cartId/items", cartHandler.ClearCart)
	protected.DELETE("/carts/:cartId", cartHandler.DeleteCart)

	return r
}

// setupPaymentRouter sets up routes for payment handler tests.
func setupPaymentRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	paymentHandler := &PaymentHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/payments", paymentHandler.CreatePayment)
	protected.GET("/payments/my", paymentHandler.GetPaymentsByUser)
	protected.GET("/payments/order/:orderId", paymentHandler.GetPaymentsByOrder)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/payments", paymentHandler.GetPayments)
	admin.PUT("/payments/:id/status", paymentHandler.UpdatePaymentStatus)

	return r
}

// ==================== Request Helpers ====================

// jsonRequest creates an HTTP request with JSON body.
func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authRequest creates an HTTP request with JSON body and Authorization header.
func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// ==================== Response Helpers ====================

// parseResponse reads the response body into a map.
func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// responseData returns the envelope's data field as a map.
func responseData(w *httptest.ResponseRecorder) map[string]interface{} {
	resp := parseResponse(w)
	data, _ := resp["data"].(map[string]interface{})
	return data
}

// responseList returns the envelope's data field as a slice.
func responseList(w *httptest.ResponseRecorder) []interface{} {
	resp := parseResponse(w)
	list, _ := resp["data"].([]interface{})
	return list
}
