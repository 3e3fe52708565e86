package database

import (
	"fmt"
	"log"
	"os"

	"dinesphere-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=dinesphere port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Reservation{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Review{},
		&models.LoyaltyAccount{},
		&models.PointsHistory{},
		&models.Reward{},
		&models.RewardRedemption{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.Favorite{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		return err
	}

	return nil
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@dinesphere.com"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
		FullName: "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}

// SeedRewards inserts the default reward catalog when the table is empty.
func SeedRewards(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Reward{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rewards := []models.Reward{
		{Title: "Free Appetizer", Description: "Get a complimentary appetizer with your meal", PointsRequired: 500, Category: "food", ValidDays: 30, RestaurantType: "all", IsActive: true},
		{Title: "20% Off Dinner", Description: "Enjoy 20% discount on your dinner bill", PointsRequired: 800, Category: "discount", ValidDays: 15, RestaurantType: "premium", IsActive: true},
		{Title: "Free Dessert", Description: "Complimentary dessert of your choice", PointsRequired: 300, Category: "food", ValidDays: 45, RestaurantType: "all", IsActive: true},
		{Title: "VIP Table Booking", Description: "Reserve a premium table with priority seating", PointsRequired: 1200, Category: "experience", ValidDays: 60, RestaurantType: "select", IsActive: true},
		{Title: "Free Main Course", Description: "Get any main course item free with your order", PointsRequired: 1000, Category: "food", ValidDays: 30, RestaurantType: "all", IsActive: true},
	}

	if err := db.Create(&rewards).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d default rewards", len(rewards))
	return nil
}
