package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/router"
	"github.com/hostsuite/frontdesk/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the whole front-of-house flow:
// 1. Login as a seeded host -> token
// 2. Onboard a restaurant with an initial floor plan
// 3. Put a walk-in party on the waitlist
// 4. Notify and seat them
// 5. Clear the table after the meal
// 6. Mark it clean and back to available
func TestEndToEndIntegration(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db, nil)

	token := loginTest(t, r)

	restaurantID, tableID := onboardRestaurantTest(t, r, token)
	guestID := createGuestTest(t, r, token, restaurantID)

	notifyGuestTest(t, r, token, guestID)
	seatGuestTest(t, r, token, tableID, guestID)
	clearTableTest(t, r, token, tableID, guestID, db)
	markCleanTest(t, r, token, tableID, db)
}

// setupTestDB -> SQLite in-memory with a seeded host account
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
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
		panic(err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("hostpassword"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Integration Host",
		Email:    "host@frontdesk.test",
		Password: string(hashed),
		Role:     "host",
	})
	return db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response data is not an object: %s", w.Body.String())
	return data
}

func loginTest(t *testing.T, r *gin.Engine) string {
	w := doJSON(t, r, "POST", "/login", "", map[string]string{
		"email":    "host@frontdesk.test",
		"password": "hostpassword",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func onboardRestaurantTest(t *testing.T, r *gin.Engine, token string) (uint, uint) {
	w := doJSON(t, r, "POST", "/api/restaurants", token, map[string]interface{}{
		"name":  "Integration Bistro",
		"phone": "555-0100",
		"tables": []map[string]interface{}{
			{"table_number": "T1", "capacity": 4, "section": "main"},
			{"table_number": "T2", "capacity": 2, "section": "bar"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	restaurantID := uint(data["id"].(float64))
	assert.Equal(t, "integration-bistro", data["slug"])

	// Floor plan came up with the restaurant.
	w = doJSON(t, r, "GET", "/api/tables?restaurant_id="+strconv.Itoa(int(restaurantID)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	tables := listResp["data"].([]interface{})
	require.Len(t, tables, 2)
	firstTable := tables[0].(map[string]interface{})
	assert.Equal(t, "available", firstTable["status"])

	return restaurantID, uint(firstTable["id"].(float64))
}

func createGuestTest(t *testing.T, r *gin.Engine, token string, restaurantID uint) uint {
	w := doJSON(t, r, "POST", "/api/guests", token, map[string]interface{}{
		"restaurant_id": restaurantID,
		"name":          "Walk In",
		"phone":         "555-0142",
		"party_size":    3,
		"quoted_wait":   15,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, "waiting", data["status"])

	// The confirmation code resolves on the public waitlist endpoint.
	code := data["confirmation_code"].(string)
	w = doJSON(t, r, "GET", "/waitlist/"+code, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lookup := decodeData(t, w)
	assert.EqualValues(t, 1, lookup["position"])

	return uint(data["id"].(float64))
}

func notifyGuestTest(t *testing.T, r *gin.Engine, token string, guestID uint) {
	path := "/api/guests/" + strconv.Itoa(int(guestID)) + "/notify"
	w := doJSON(t, r, "POST", path, token, map[string]string{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, true, data["sent"])
}

func seatGuestTest(t *testing.T, r *gin.Engine, token string, tableID, guestID uint) {
	path := "/api/tables/" + strconv.Itoa(int(tableID)) + "/seat"
	w := doJSON(t, r, "POST", path, token, map[string]interface{}{"guest_id": guestID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	guest := data["guest"].(map[string]interface{})
	table := data["table"].(map[string]interface{})
	assert.Equal(t, "seated", guest["status"])
	assert.Equal(t, "occupied", table["status"])
	assert.Equal(t, table["table_number"], guest["table_number"])

	// Seating the same guest twice is refused.
	w = doJSON(t, r, "POST", path, token, map[string]interface{}{"guest_id": guestID})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func clearTableTest(t *testing.T, r *gin.Engine, token string, tableID, guestID uint, db *gorm.DB) {
	path := "/api/tables/" + strconv.Itoa(int(tableID)) + "/clear"
	w := doJSON(t, r, "POST", path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var guest models.Guest
	require.NoError(t, db.First(&guest, guestID).Error)
	assert.Equal(t, models.GuestCompleted, guest.Status)
	assert.Nil(t, guest.TableNumber)

	var table models.Table
	require.NoError(t, db.First(&table, tableID).Error)
	assert.Equal(t, models.TableCleaning, table.Status)
	assert.Nil(t, table.CurrentGuestID)
}

func markCleanTest(t *testing.T, r *gin.Engine, token string, tableID uint, db *gorm.DB) {
	path := "/api/tables/" + strconv.Itoa(int(tableID)) + "/clean"
	w := doJSON(t, r, "PATCH", path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var table models.Table
	require.NoError(t, db.First(&table, tableID).Error)
	assert.Equal(t, models.TableAvailable, table.Status)

	// The cleaning log closed with the table.
	var open int64
	db.Model(&models.CleaningLog{}).Where("table_id = ? AND status = ?", tableID, "pending").Count(&open)
	assert.Zero(t, open)
}
