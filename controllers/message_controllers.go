package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/hub"
	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/utils"
)

type MessageController struct {
	DB *gorm.DB
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db}
}

// GetAllMessages -> outbound message log, newest first
func (mc *MessageController) GetAllMessages(c *gin.Context) {
	query := mc.DB.Order("created_at DESC")
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}

	var messages []models.Message
	if err := query.Find(&messages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Message log", messages)
}

// GetMessagesByGuest -> conversation history for one guest
func (mc *MessageController) GetMessagesByGuest(c *gin.Context) {
	guestID := c.Param("guest_id")

	var messages []models.Message
	if err := mc.DB.Where("guest_id = ?", guestID).Order("created_at ASC").Find(&messages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Messages for guest", messages)
}

// CreateMessage -> log a free-form outbound message
func (mc *MessageController) CreateMessage(c *gin.Context) {
	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		GuestID      *uint  `json:"guest_id"`
		Phone        string `json:"phone" binding:"required"`
		Body         string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	msg := models.Message{
		RestaurantID: req.RestaurantID,
		GuestID:      req.GuestID,
		Phone:        req.Phone,
		Body:         req.Body,
		Sent:         true,
	}

	if req.GuestID != nil {
		var guest models.Guest
		if err := mc.DB.First(&guest, *req.GuestID).Error; err == nil {
			msg.GuestName = guest.Name
		}
	}

	if err := mc.DB.Create(&msg).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastMessageCreate(msg)
	utils.InfoLogger.Printf("Message logged for %s", msg.Phone)
	utils.RespondJSON(c, http.StatusCreated, "Message logged", msg)
}
