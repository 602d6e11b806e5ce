package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/coffee-shop-app/config"
	"github.com/yeremiapane/coffee-shop-app/middlewares"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/router"
	"github.com/yeremiapane/coffee-shop-app/services"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg := config.Load()
	utils.InitJWT(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedRoles(db)

	mailer := services.NewMailer(cfg)
	notifier := services.NewNotificationService(db, mailer, cfg.FrontendBaseURL)
	status := services.NewStatusService(db, notifier)
	gateway := services.NewMidtransGateway(cfg)
	payments := services.NewPaymentService(db, gateway, status, notifier)
	allocator := services.NewBookingAllocator(db)
	orders := services.NewOrderService(db)

	// Expire stale PENDING transactions in the background.
	paymentMonitor := services.NewPaymentMonitor(db, payments)
	paymentMonitor.Start()
	defer paymentMonitor.Stop()

	r := router.SetupRouter(router.Deps{
		DB:        db,
		Status:    status,
		Notifier:  notifier,
		Allocator: allocator,
		Orders:    orders,
		Payments:  payments,
	})

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.CoffeeShop{},
		&models.OperatingHour{},
		&models.TimeSlot{},
		&models.Table{},
		&models.Menu{},
		&models.VariantType{},
		&models.Variant{},
		&models.MenuVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemVariant{},
		&models.Transaction{},
		&models.Booking{},
		&models.OrderStatusHistory{},
		&models.BookingStatusHistory{},
		&models.Notification{},
		&models.Favorite{},
		&models.Rating{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

func seedRoles(db *gorm.DB) {
	for _, name := range []string{models.RoleAdmin, models.RoleUser, models.RoleGuest} {
		var count int64
		db.Model(&models.Role{}).Where("role = ?", name).Count(&count)
		if count == 0 {
			if err := db.Create(&models.Role{Role: name}).Error; err != nil {
				utils.ErrorLogger.Printf("Failed to seed role %s: %v", name, err)
			}
		}
	}
}
