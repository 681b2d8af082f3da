package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/controllers"
	"github.com/hostsuite/frontdesk/middlewares"
	"github.com/hostsuite/frontdesk/services"
	"github.com/hostsuite/frontdesk/store"
)

func SetupRouter(db *gorm.DB, st *store.EntityStore) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	seatingSvc := services.NewSeatingService(db, st)

	userCtrl := controllers.NewUserController(db)
	guestCtrl := controllers.NewGuestController(db, seatingSvc)
	tableCtrl := controllers.NewTableController(db, seatingSvc)
	messageCtrl := controllers.NewMessageController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	cleanLogCtrl := controllers.NewCleaningLogController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Tighter limit on credential endpoints
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Guest-facing: online waitlist signup and place-in-line check
	r.POST("/waitlist", guestCtrl.CreateGuest)
	r.GET("/waitlist/:code", guestCtrl.LookupByCode)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// RESTAURANTS (onboarding + settings)
	auth.POST("/restaurants", restaurantCtrl.CreateRestaurant)
	auth.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurant)
	auth.PATCH("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)

	// GUESTS / WAITLIST (host, manager)
	auth.GET("/guests", guestCtrl.GetAllGuests)
	auth.GET("/guests/waitlist", guestCtrl.GetWaitlist)
	auth.POST("/guests", guestCtrl.CreateGuest)
	auth.GET("/guests/:guest_id", guestCtrl.GetGuestByID)
	auth.PATCH("/guests/:guest_id", guestCtrl.UpdateGuest)
	auth.PATCH("/guests/:guest_id/status", guestCtrl.UpdateGuestStatus)
	auth.DELETE("/guests/:guest_id", guestCtrl.DeleteGuest)
	auth.POST("/guests/:guest_id/notify", guestCtrl.NotifyGuest)
	auth.GET("/guests/:guest_id/messages", messageCtrl.GetMessagesByGuest)

	// TABLES / FLOOR PLAN
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/by-status", tableCtrl.FindTablesByStatus)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// Seating actions
	auth.POST("/tables/:table_id/seat", tableCtrl.SeatGuest)
	auth.POST("/tables/:table_id/clear", tableCtrl.ClearTable)
	auth.PATCH("/tables/:table_id/clean", tableCtrl.MarkTableClean)
	auth.POST("/tables/:table_id/reserve", tableCtrl.ReserveTable)
	auth.POST("/tables/:table_id/cancel-reservation", tableCtrl.CancelReservation)

	// MESSAGES (outbound log)
	auth.GET("/messages", messageCtrl.GetAllMessages)
	auth.POST("/messages", messageCtrl.CreateMessage)

	// NOTIFICATIONS (staff)
	auth.GET("/notifications", notificationCtrl.GetAllNotifications)
	auth.POST("/notifications", notificationCtrl.CreateNotification)
	auth.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	// CLEANING LOGS (cleaner, host, manager)
	auth.GET("/cleaning-logs", cleanLogCtrl.GetAllCleaningLogs)
	auth.GET("/cleaning-logs/:clean_id", cleanLogCtrl.GetCleaningLogByID)
	auth.POST("/cleaning-logs/:clean_id/claim", middlewares.RequireRole("cleaner", "host", "manager"), cleanLogCtrl.ClaimCleaningLog)

	// DASHBOARD
	auth.GET("/dashboard/stats", adminCtrl.GetDashboardStats)

	// WebSocket endpoint; token arrives via query string
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.FloorHandler)
	}

	return r
}
