package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/utils"
)

type CleaningLogController struct {
	DB *gorm.DB
}

func NewCleaningLogController(db *gorm.DB) *CleaningLogController {
	return &CleaningLogController{DB: db}
}

// GetAllCleaningLogs
func (clc *CleaningLogController) GetAllCleaningLogs(c *gin.Context) {
	query := clc.DB.Preload("Cleaner").Preload("Table").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var logs []models.CleaningLog
	if err := query.Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All cleaning logs", logs)
}

// GetCleaningLogByID
func (clc *CleaningLogController) GetCleaningLogByID(c *gin.Context) {
	idStr := c.Param("clean_id")
	id, _ := strconv.Atoi(idStr)

	var logEntry models.CleaningLog
	if err := clc.DB.Preload("Cleaner").Preload("Table").First(&logEntry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaning log detail", logEntry)
}

// ClaimCleaningLog -> a cleaner takes a pending turnaround
func (clc *CleaningLogController) ClaimCleaningLog(c *gin.Context) {
	idStr := c.Param("clean_id")
	id, _ := strconv.Atoi(idStr)

	userID, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, ErrNoPermission)
		return
	}

	var logEntry models.CleaningLog
	if err := clc.DB.First(&logEntry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if logEntry.Status != "pending" {
		utils.RespondError(c, http.StatusConflict, &CustomError{"cleaning log is not pending"})
		return
	}

	uid, _ := userID.(uint)
	logEntry.CleanerID = &uid
	if err := clc.DB.Save(&logEntry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cleaning log claimed", logEntry)
}
