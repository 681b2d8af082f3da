package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/config"
	"github.com/hostsuite/frontdesk/database"
	"github.com/hostsuite/frontdesk/middlewares"
	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/router"
	"github.com/hostsuite/frontdesk/services"
	"github.com/hostsuite/frontdesk/store"
	"github.com/hostsuite/frontdesk/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	utils.InitBlacklist()

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Snapshot store + change monitor for the restaurant this instance
	// serves. Multi-tenant deployments run one instance per restaurant.
	var entityStore *store.EntityStore
	if rid, err := strconv.Atoi(os.Getenv("RESTAURANT_ID")); err == nil && rid > 0 {
		entityStore = store.NewEntityStore(db, uint(rid))
		if err := entityStore.Refresh(); err != nil {
			utils.ErrorLogger.Printf("Initial store refresh failed: %v", err)
		}
	}

	monitor := services.NewChangeMonitor(db, entityStore)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, entityStore)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Table{},
		&models.Guest{},
		&models.Message{},
		&models.CleaningLog{},
		&models.Notification{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}
}
