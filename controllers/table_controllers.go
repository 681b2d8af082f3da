package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/hub"
	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/services"
	"github.com/hostsuite/frontdesk/utils"
)

type TableController struct {
	DB      *gorm.DB
	Seating *services.SeatingService
}

func NewTableController(db *gorm.DB, seating *services.SeatingService) *TableController {
	return &TableController{DB: db, Seating: seating}
}

// CreateTable -> add a table to the floor plan
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		RestaurantID uint           `json:"restaurant_id" binding:"required"`
		TableNumber  string         `json:"table_number" binding:"required"`
		Capacity     int            `json:"capacity" binding:"required,gt=0"`
		Section      string         `json:"section"`
		Shape        string         `json:"shape"`
		Position     datatypes.JSON `json:"position"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		RestaurantID: req.RestaurantID,
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
		Status:       models.TableAvailable,
		Section:      req.Section,
		Shape:        req.Shape,
		Position:     req.Position,
	}
	if table.Shape == "" {
		table.Shape = "square"
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableCreate(table)
	hub.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))
	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> every table, optionally one restaurant
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Order("table_number ASC")
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail for one table
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// FindTablesByStatus -> e.g. list available tables for the seat dialog
func (tc *TableController) FindTablesByStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		status = models.TableAvailable
	}
	query := tc.DB.Where("status = ?", status)
	if rid := c.Query("restaurant_id"); rid != "" {
		query = query.Where("restaurant_id = ?", rid)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables with status: "+status, tables)
}

// UpdateTable -> floor-plan edits: capacity, section, shape, position.
// Status never changes here; that is what the seating actions are for.
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var req struct {
		TableNumber *string         `json:"table_number"`
		Capacity    *int            `json:"capacity"`
		Section     *string         `json:"section"`
		Shape       *string         `json:"shape"`
		Position    *datatypes.JSON `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, &CustomError{"capacity must be positive"})
			return
		}
		table.Capacity = *req.Capacity
	}
	if req.Section != nil {
		table.Section = *req.Section
	}
	if req.Shape != nil {
		table.Shape = *req.Shape
	}
	if req.Position != nil {
		table.Position = *req.Position
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> configuration-time only; never while a party is on it
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table

	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if table.Status == models.TableOccupied || table.Status == models.TableReserved {
		utils.RespondError(c, http.StatusConflict, &CustomError{"table is in service and cannot be deleted"})
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableDelete(table.ID)
	hub.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// SeatGuest -> assign a guest to this table
func (tc *TableController) SeatGuest(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		GuestID uint `json:"guest_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	guest, table, err := tc.Seating.Seat(body.GuestID, uint(tableID))
	if err != nil {
		respondSeatingError(c, err)
		return
	}

	hub.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))
	utils.RespondJSON(c, http.StatusOK, "Guest seated", gin.H{
		"guest": guest,
		"table": table,
	})
}

// ClearTable -> party left; table goes to cleaning
func (tc *TableController) ClearTable(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, guest, cleared, err := tc.Seating.ClearTable(uint(tableID))
	if err != nil {
		respondSeatingError(c, err)
		return
	}

	if !cleared {
		utils.RespondJSON(c, http.StatusOK, "Table already cleared", table)
		return
	}

	hub.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))
	utils.RespondJSON(c, http.StatusOK, "Table cleared", gin.H{
		"table": table,
		"guest": guest,
	})
}

// MarkTableClean -> cleaner flags the table ready for the next party
func (tc *TableController) MarkTableClean(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	role, _ := roleInterface.(string)
	if role != "cleaner" && role != "host" && role != "manager" && role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Seating.MarkAvailable(uint(tableID))
	if err != nil {
		respondSeatingError(c, err)
		return
	}

	hub.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))
	utils.RespondJSON(c, http.StatusOK, "Table marked as clean", table)
}

// ReserveTable -> hold this table for a waiting guest
func (tc *TableController) ReserveTable(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		GuestID uint `json:"guest_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	guest, table, err := tc.Seating.Reserve(body.GuestID, uint(tableID))
	if err != nil {
		respondSeatingError(c, err)
		return
	}

	hub.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))
	utils.RespondJSON(c, http.StatusOK, "Table reserved", gin.H{
		"guest": guest,
		"table": table,
	})
}

// CancelReservation -> release the hold; the guest returns to waiting
func (tc *TableController) CancelReservation(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Seating.CancelReservation(uint(tableID))
	if err != nil {
		respondSeatingError(c, err)
		return
	}

	hub.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", table)
}

// getDashboardStats counts tables per status for the dashboard cards
func (tc *TableController) getDashboardStats(restaurantID uint) map[string]interface{} {
	var availableCount, occupiedCount, reservedCount, cleaningCount int64

	tc.DB.Model(&models.Table{}).Where("restaurant_id = ? AND status = ?", restaurantID, models.TableAvailable).Count(&availableCount)
	tc.DB.Model(&models.Table{}).Where("restaurant_id = ? AND status = ?", restaurantID, models.TableOccupied).Count(&occupiedCount)
	tc.DB.Model(&models.Table{}).Where("restaurant_id = ? AND status = ?", restaurantID, models.TableReserved).Count(&reservedCount)
	tc.DB.Model(&models.Table{}).Where("restaurant_id = ? AND status = ?", restaurantID, models.TableCleaning).Count(&cleaningCount)

	return map[string]interface{}{
		"available": availableCount,
		"occupied":  occupiedCount,
		"reserved":  reservedCount,
		"cleaning":  cleaningCount,
		"total":     availableCount + occupiedCount + reservedCount + cleaningCount,
	}
}
