package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> the numbers behind the host dashboard cards:
// waitlist depth, average quoted wait, table occupancy.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("no role found"))
		return
	}
	role, ok := roleInterface.(string)
	if !ok || (role != "admin" && role != "manager" && role != "host") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	restaurantID, err := strconv.Atoi(c.Query("restaurant_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("restaurant_id is required"))
		return
	}

	var waitingCount, reservedCount, seatedCount int64
	ac.DB.Model(&models.Guest{}).Where("restaurant_id = ? AND status = ?", restaurantID, models.GuestWaiting).Count(&waitingCount)
	ac.DB.Model(&models.Guest{}).Where("restaurant_id = ? AND status = ?", restaurantID, models.GuestReserved).Count(&reservedCount)
	ac.DB.Model(&models.Guest{}).Where("restaurant_id = ? AND status = ?", restaurantID, models.GuestSeated).Count(&seatedCount)

	var avgWait float64
	ac.DB.Model(&models.Guest{}).
		Where("restaurant_id = ? AND status = ? AND quoted_wait IS NOT NULL", restaurantID, models.GuestWaiting).
		Select("COALESCE(AVG(quoted_wait), 0)").
		Scan(&avgWait)

	var totalTables, occupiedTables int64
	ac.DB.Model(&models.Table{}).Where("restaurant_id = ?", restaurantID).Count(&totalTables)
	ac.DB.Model(&models.Table{}).Where("restaurant_id = ? AND status = ?", restaurantID, models.TableOccupied).Count(&occupiedTables)

	occupancy := 0.0
	if totalTables > 0 {
		occupancy = float64(occupiedTables) / float64(totalTables) * 100
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"waiting":           waitingCount,
		"reserved":          reservedCount,
		"seated":            seatedCount,
		"avg_quoted_wait":   avgWait,
		"avg_quoted_label":  utils.FormatWait(int(avgWait)),
		"tables_total":      totalTables,
		"tables_occupied":   occupiedTables,
		"occupancy_percent": occupancy,
	})
}
