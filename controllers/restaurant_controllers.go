package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// CreateRestaurant -> onboarding: profile plus optional initial floor
// plan in one shot, so a new restaurant is usable right after signup.
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req struct {
		Name      string         `json:"name" binding:"required"`
		Slug      string         `json:"slug"`
		Phone     string         `json:"phone"`
		Email     string         `json:"email"`
		Address   string         `json:"address"`
		OpenHours datatypes.JSON `json:"open_hours"`
		Tables    []struct {
			TableNumber string         `json:"table_number" binding:"required"`
			Capacity    int            `json:"capacity" binding:"required,gt=0"`
			Section     string         `json:"section"`
			Shape       string         `json:"shape"`
			Position    datatypes.JSON `json:"position"`
		} `json:"tables"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(req.Name), " ", "-"))
	}

	restaurant := models.Restaurant{
		Name:      req.Name,
		Slug:      slug,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		OpenHours: req.OpenHours,
	}

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&restaurant).Error; err != nil {
			return err
		}
		for _, t := range req.Tables {
			table := models.Table{
				RestaurantID: restaurant.ID,
				TableNumber:  t.TableNumber,
				Capacity:     t.Capacity,
				Status:       models.TableAvailable,
				Section:      t.Section,
				Shape:        t.Shape,
				Position:     t.Position,
			}
			if table.Shape == "" {
				table.Shape = "square"
			}
			if err := tx.Create(&table).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant onboarded: %s (%d tables)", restaurant.Name, len(req.Tables))
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetRestaurant -> profile and settings
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")
	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// UpdateRestaurant -> settings form
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	var req struct {
		Name      *string         `json:"name"`
		Phone     *string         `json:"phone"`
		Email     *string         `json:"email"`
		Address   *string         `json:"address"`
		OpenHours *datatypes.JSON `json:"open_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Email != nil {
		restaurant.Email = *req.Email
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.OpenHours != nil {
		restaurant.OpenHours = *req.OpenHours
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}
