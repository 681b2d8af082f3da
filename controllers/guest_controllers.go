package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/hub"
	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/services"
	"github.com/hostsuite/frontdesk/utils"
)

type GuestController struct {
	DB      *gorm.DB
	Seating *services.SeatingService
}

func NewGuestController(db *gorm.DB, seating *services.SeatingService) *GuestController {
	return &GuestController{DB: db, Seating: seating}
}

// CreateGuest -> intake a new party (walk-in, phone, online, app)
func (gc *GuestController) CreateGuest(c *gin.Context) {
	var req struct {
		RestaurantID    uint    `json:"restaurant_id" binding:"required"`
		Name            string  `json:"name" binding:"required"`
		Phone           string  `json:"phone" binding:"required"`
		Email           *string `json:"email"`
		PartySize       int     `json:"party_size" binding:"required,gt=0"`
		Source          string  `json:"source"`
		SpecialRequests string  `json:"special_requests"`
		QuotedWait      *int    `json:"quoted_wait"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	source := models.SourceWalkIn
	switch req.Source {
	case "", models.SourceWalkIn:
	case models.SourcePhone, models.SourceOnline, models.SourceApp:
		source = req.Source
	default:
		utils.RespondError(c, http.StatusBadRequest, &CustomError{"unknown guest source: " + req.Source})
		return
	}

	guest := models.Guest{
		RestaurantID:     req.RestaurantID,
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		PartySize:        req.PartySize,
		Status:           models.GuestWaiting,
		Source:           source,
		SpecialRequests:  req.SpecialRequests,
		QuotedWait:       req.QuotedWait,
		ConfirmationCode: uuid.NewString(),
	}

	if err := gc.DB.Create(&guest).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastGuestCreate(guest)
	utils.InfoLogger.Printf("New guest on waitlist: %s, party of %d (%s)", guest.Name, guest.PartySize, guest.Source)
	utils.RespondJSON(c, http.StatusCreated, "Guest added to waitlist", guest)
}

// GetWaitlist -> waiting guests in arrival order (?status overrides)
func (gc *GuestController) GetWaitlist(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		status = models.GuestWaiting
	}

	query := gc.DB.Where("status = ?", status).Order("created_at ASC")
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}

	var guests []models.Guest
	if err := query.Find(&guests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waitlist", guests)
}

// GetAllGuests -> every guest regardless of status
func (gc *GuestController) GetAllGuests(c *gin.Context) {
	var guests []models.Guest
	query := gc.DB.Order("created_at ASC")
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}
	if err := query.Find(&guests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of guests", guests)
}

// GetGuestByID -> detail for one guest
func (gc *GuestController) GetGuestByID(c *gin.Context) {
	guestID := c.Param("guest_id")
	var guest models.Guest
	if err := gc.DB.First(&guest, guestID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Guest detail", guest)
}

// UpdateGuest -> contact details, party size, requests, quoted wait.
// Status changes go through UpdateGuestStatus, never here.
func (gc *GuestController) UpdateGuest(c *gin.Context) {
	guestID := c.Param("guest_id")

	var req struct {
		Name            *string `json:"name"`
		Phone           *string `json:"phone"`
		Email           *string `json:"email"`
		PartySize       *int    `json:"party_size"`
		SpecialRequests *string `json:"special_requests"`
		QuotedWait      *int    `json:"quoted_wait"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var guest models.Guest
	if err := gc.DB.First(&guest, guestID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Name != nil {
		guest.Name = *req.Name
	}
	if req.Phone != nil {
		guest.Phone = *req.Phone
	}
	if req.Email != nil {
		guest.Email = req.Email
	}
	if req.PartySize != nil {
		if *req.PartySize <= 0 {
			utils.RespondError(c, http.StatusBadRequest, &CustomError{"party size must be positive"})
			return
		}
		guest.PartySize = *req.PartySize
	}
	if req.SpecialRequests != nil {
		guest.SpecialRequests = *req.SpecialRequests
	}
	if req.QuotedWait != nil {
		guest.QuotedWait = req.QuotedWait
	}

	if err := gc.DB.Save(&guest).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastGuestUpdate(guest)
	utils.RespondJSON(c, http.StatusOK, "Guest updated", guest)
}

// UpdateGuestStatus -> manual queue move (waiting->reserved, ->completed)
func (gc *GuestController) UpdateGuestStatus(c *gin.Context) {
	guestID, err := strconv.Atoi(c.Param("guest_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	guest, err := gc.Seating.MoveQueueStatus(uint(guestID), body.Status)
	if err != nil {
		respondSeatingError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Guest status updated", guest)
}

// DeleteGuest -> explicit removal from the queue
func (gc *GuestController) DeleteGuest(c *gin.Context) {
	guestID := c.Param("guest_id")

	var guest models.Guest
	if err := gc.DB.First(&guest, guestID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if guest.Status == models.GuestSeated {
		utils.RespondError(c, http.StatusConflict, &CustomError{"guest is seated; clear the table instead"})
		return
	}

	if err := gc.DB.Delete(&guest).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastGuestDelete(guest.ID)
	utils.InfoLogger.Printf("Guest %d removed from queue", guest.ID)
	utils.RespondJSON(c, http.StatusOK, "Guest removed", gin.H{"guest_id": guest.ID})
}

// NotifyGuest -> log an outbound "your table is ready" message and flag
// the guest as notified. Actual delivery belongs to the SMS provider.
func (gc *GuestController) NotifyGuest(c *gin.Context) {
	guestID := c.Param("guest_id")

	// Body is optional; default text is filled in below.
	var body struct {
		Body string `json:"body"`
	}
	_ = c.ShouldBindJSON(&body)

	var guest models.Guest
	if err := gc.DB.First(&guest, guestID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	text := body.Body
	if text == "" {
		text = "Hi " + guest.Name + ", your table is ready. Please see the host stand."
	}

	msg := models.Message{
		RestaurantID: guest.RestaurantID,
		GuestID:      &guest.ID,
		GuestName:    guest.Name,
		Phone:        guest.Phone,
		Body:         text,
		Sent:         true,
	}

	err := gc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		guest.Notified = true
		return tx.Save(&guest).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastMessageCreate(msg)
	hub.BroadcastGuestUpdate(guest)
	utils.InfoLogger.Printf("Guest %d notified at %s", guest.ID, guest.Phone)
	utils.RespondJSON(c, http.StatusOK, "Guest notified", msg)
}

// LookupByCode -> public endpoint: a guest checks their place in line
// with the confirmation code from intake.
func (gc *GuestController) LookupByCode(c *gin.Context) {
	code := c.Param("code")

	var guest models.Guest
	if err := gc.DB.Where("confirmation_code = ?", code).First(&guest).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var position int64
	if guest.Status == models.GuestWaiting {
		gc.DB.Model(&models.Guest{}).
			Where("restaurant_id = ? AND status = ? AND created_at <= ? AND id <= ?",
				guest.RestaurantID, models.GuestWaiting, guest.CreatedAt, guest.ID).
			Count(&position)
	}

	resp := gin.H{
		"status":     guest.Status,
		"party_size": guest.PartySize,
		"notified":   guest.Notified,
	}
	if guest.Status == models.GuestWaiting {
		resp["position"] = position
		if guest.QuotedWait != nil {
			resp["quoted_wait"] = utils.FormatWait(*guest.QuotedWait)
		}
	}
	if guest.TableNumber != nil {
		resp["table_number"] = *guest.TableNumber
	}

	utils.RespondJSON(c, http.StatusOK, "Waitlist status", resp)
}
