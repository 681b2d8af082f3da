package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/hub"
	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetAllNotifications
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	query := nc.DB.Order("created_at DESC")
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}

	var notifs []models.Notification
	if err := query.Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

// CreateNotification -> broadcast or a specific user
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type reqBody struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		UserID       *uint  `json:"user_id"`
		Title        string `json:"title"`
		Message      string `json:"message" binding:"required"`
		Kind         string `json:"kind"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	kind := body.Kind
	switch kind {
	case "":
		kind = "info"
	case "success", "error", "info":
	default:
		utils.RespondError(c, http.StatusBadRequest, &CustomError{"unknown notification kind: " + kind})
		return
	}

	notif := models.Notification{
		RestaurantID: body.RestaurantID,
		Message:      body.Message,
		Kind:         kind,
	}
	if body.Title != "" {
		notif.Title = &body.Title
	}
	if body.UserID != nil {
		notif.UserID = body.UserID
	}

	if err := nc.DB.Create(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastStaffNotification(notif.Message, notif.Kind)
	utils.InfoLogger.Printf("Notification created: %v", notif.Message)
	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// GetNotificationByID
func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	idStr := c.Param("notif_id")
	id, _ := strconv.Atoi(idStr)

	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification detail", notif)
}

// DeleteNotification
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	idStr := c.Param("notif_id")
	id, _ := strconv.Atoi(idStr)

	if err := nc.DB.Delete(&models.Notification{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
