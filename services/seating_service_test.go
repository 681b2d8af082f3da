package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/seating"
	"github.com/hostsuite/frontdesk/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupSeatingDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Restaurant{},
		&models.Table{},
		&models.Guest{},
		&models.CleaningLog{},
		&models.Notification{},
	)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Restaurant{Name: "Test Bistro", Slug: "test-bistro"}).Error)
	return db
}

func seedGuest(t *testing.T, db *gorm.DB, name string, partySize int, status string) models.Guest {
	guest := models.Guest{
		RestaurantID:     1,
		Name:             name,
		Phone:            "555-0100",
		PartySize:        partySize,
		Status:           status,
		Source:           models.SourceWalkIn,
		ConfirmationCode: "code-" + name,
	}
	require.NoError(t, db.Create(&guest).Error)
	return guest
}

func seedTable(t *testing.T, db *gorm.DB, number string, capacity int, status string) models.Table {
	table := models.Table{
		RestaurantID: 1,
		TableNumber:  number,
		Capacity:     capacity,
		Status:       status,
	}
	require.NoError(t, db.Create(&table).Error)
	return table
}

// checkFloorInvariants re-reads every row and asserts the two
// bidirectional rules: occupied <-> current guest set, and
// seated <-> table number set.
func checkFloorInvariants(t *testing.T, db *gorm.DB) {
	t.Helper()

	var tables []models.Table
	require.NoError(t, db.Find(&tables).Error)
	for _, tbl := range tables {
		if tbl.Status == models.TableOccupied {
			assert.NotNil(t, tbl.CurrentGuestID, "occupied table %s must reference a guest", tbl.TableNumber)
		} else {
			assert.Nil(t, tbl.CurrentGuestID, "%s table %s must not reference a guest", tbl.Status, tbl.TableNumber)
		}
	}

	var guests []models.Guest
	require.NoError(t, db.Find(&guests).Error)
	for _, g := range guests {
		if g.Status == models.GuestSeated {
			assert.NotNil(t, g.TableNumber, "seated guest %s must carry a table number", g.Name)
		} else {
			assert.Nil(t, g.TableNumber, "%s guest %s must not carry a table number", g.Status, g.Name)
		}
	}
}

func TestSeatSuccess(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	g1 := seedGuest(t, db, "g1", 4, models.GuestWaiting)
	t1 := seedTable(t, db, "T1", 4, models.TableAvailable)

	guest, table, err := svc.Seat(g1.ID, t1.ID)
	require.NoError(t, err)

	assert.Equal(t, models.GuestSeated, guest.Status)
	require.NotNil(t, guest.TableNumber)
	assert.Equal(t, "T1", *guest.TableNumber)
	assert.Equal(t, models.TableOccupied, table.Status)
	require.NotNil(t, table.CurrentGuestID)
	assert.Equal(t, g1.ID, *table.CurrentGuestID)

	checkFloorInvariants(t, db)
}

func TestSeatCapacityExceededLeavesStateUnchanged(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	g2 := seedGuest(t, db, "g2", 6, models.GuestWaiting)
	t2 := seedTable(t, db, "T2", 4, models.TableAvailable)

	_, _, err := svc.Seat(g2.ID, t2.ID)
	assert.ErrorIs(t, err, seating.ErrCapacityExceeded)

	var guest models.Guest
	require.NoError(t, db.First(&guest, g2.ID).Error)
	assert.Equal(t, models.GuestWaiting, guest.Status)
	assert.Nil(t, guest.TableNumber)

	var table models.Table
	require.NoError(t, db.First(&table, t2.ID).Error)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Nil(t, table.CurrentGuestID)

	checkFloorInvariants(t, db)
}

func TestSeatBoundaryCapacity(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	guest := seedGuest(t, db, "exact-fit", 4, models.GuestWaiting)
	table := seedTable(t, db, "T4", 4, models.TableAvailable)

	_, _, err := svc.Seat(guest.ID, table.ID)
	assert.NoError(t, err, "party size equal to capacity must seat")
	checkFloorInvariants(t, db)
}

func TestSeatOccupiedTableRejected(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	first := seedGuest(t, db, "first", 2, models.GuestWaiting)
	second := seedGuest(t, db, "second", 2, models.GuestWaiting)
	table := seedTable(t, db, "T5", 4, models.TableAvailable)

	_, _, err := svc.Seat(first.ID, table.ID)
	require.NoError(t, err)

	_, _, err = svc.Seat(second.ID, table.ID)
	assert.ErrorIs(t, err, seating.ErrTableUnavailable)
	checkFloorInvariants(t, db)
}

func TestSeatRejectsOtherRestaurantsTable(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	require.NoError(t, db.Create(&models.Restaurant{Name: "Next Door", Slug: "next-door"}).Error)
	guest := seedGuest(t, db, "wanderer", 2, models.GuestWaiting)
	foreign := models.Table{RestaurantID: 2, TableNumber: "N1", Capacity: 4, Status: models.TableAvailable}
	require.NoError(t, db.Create(&foreign).Error)

	_, _, err := svc.Seat(guest.ID, foreign.ID)
	assert.ErrorIs(t, err, seating.ErrTableUnavailable)

	var table models.Table
	require.NoError(t, db.First(&table, foreign.ID).Error)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Nil(t, table.CurrentGuestID)

	var reread models.Guest
	require.NoError(t, db.First(&reread, guest.ID).Error)
	assert.Equal(t, models.GuestWaiting, reread.Status)

	_, _, err = svc.Reserve(guest.ID, foreign.ID)
	assert.ErrorIs(t, err, seating.ErrTableUnavailable)
	require.NoError(t, db.First(&table, foreign.ID).Error)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Nil(t, table.ReservedForID)
}

func TestSeatMissingEntities(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	table := seedTable(t, db, "T6", 4, models.TableAvailable)
	_, _, err := svc.Seat(999, table.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	guest := seedGuest(t, db, "lonely", 2, models.GuestWaiting)
	_, _, err = svc.Seat(guest.ID, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClearTableFullCycle(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	g3 := seedGuest(t, db, "g3", 2, models.GuestWaiting)
	t3 := seedTable(t, db, "T3", 4, models.TableAvailable)

	_, _, err := svc.Seat(g3.ID, t3.ID)
	require.NoError(t, err)

	table, guest, cleared, err := svc.ClearTable(t3.ID)
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, models.TableCleaning, table.Status)
	assert.Nil(t, table.CurrentGuestID)
	require.NotNil(t, guest)
	assert.Equal(t, models.GuestCompleted, guest.Status)
	assert.Nil(t, guest.TableNumber)
	checkFloorInvariants(t, db)

	// A cleaning log opens for the turnaround.
	var logCount int64
	db.Model(&models.CleaningLog{}).Where("table_id = ? AND status = ?", t3.ID, "pending").Count(&logCount)
	assert.EqualValues(t, 1, logCount)

	table, err = svc.MarkAvailable(t3.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)
	checkFloorInvariants(t, db)

	db.Model(&models.CleaningLog{}).Where("table_id = ? AND status = ?", t3.ID, "done").Count(&logCount)
	assert.EqualValues(t, 1, logCount)
}

func TestClearTableIdempotent(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	guest := seedGuest(t, db, "leaver", 2, models.GuestWaiting)
	table := seedTable(t, db, "T7", 2, models.TableAvailable)

	_, _, err := svc.Seat(guest.ID, table.ID)
	require.NoError(t, err)

	_, _, cleared, err := svc.ClearTable(table.ID)
	require.NoError(t, err)
	assert.True(t, cleared)

	// Second clear is a reported no-op, not an error.
	after, g, cleared, err := svc.ClearTable(table.ID)
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Nil(t, g)
	assert.Equal(t, models.TableCleaning, after.Status)

	// Same for a table that is already available.
	avail := seedTable(t, db, "T8", 2, models.TableAvailable)
	_, _, cleared, err = svc.ClearTable(avail.ID)
	require.NoError(t, err)
	assert.False(t, cleared)

	// Only one cleaning log despite the repeated clear.
	var logCount int64
	db.Model(&models.CleaningLog{}).Where("table_id = ?", table.ID).Count(&logCount)
	assert.EqualValues(t, 1, logCount)
	checkFloorInvariants(t, db)
}

func TestMarkAvailableRequiresCleaning(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	table := seedTable(t, db, "T9", 4, models.TableAvailable)
	_, err := svc.MarkAvailable(table.ID)
	assert.ErrorIs(t, err, seating.ErrInvalidTransition)
}

func TestMoveQueueStatus(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	guest := seedGuest(t, db, "mover", 2, models.GuestWaiting)

	updated, err := svc.MoveQueueStatus(guest.ID, models.GuestReserved)
	require.NoError(t, err)
	assert.Equal(t, models.GuestReserved, updated.Status)

	updated, err = svc.MoveQueueStatus(guest.ID, models.GuestCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.GuestCompleted, updated.Status)
	checkFloorInvariants(t, db)
}

func TestMoveQueueStatusRejectsInvalid(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	done := seedGuest(t, db, "done", 2, models.GuestCompleted)

	// completed is terminal; the record must be untouched on failure.
	_, err := svc.MoveQueueStatus(done.ID, models.GuestWaiting)
	assert.ErrorIs(t, err, seating.ErrInvalidTransition)

	var reread models.Guest
	require.NoError(t, db.First(&reread, done.ID).Error)
	assert.Equal(t, models.GuestCompleted, reread.Status)

	// seated is only reachable through Seat.
	waiting := seedGuest(t, db, "hopeful", 2, models.GuestWaiting)
	_, err = svc.MoveQueueStatus(waiting.ID, models.GuestSeated)
	assert.ErrorIs(t, err, seating.ErrInvalidTransition)

	// unknown statuses are rejected outright.
	_, err = svc.MoveQueueStatus(waiting.ID, "napping")
	assert.ErrorIs(t, err, seating.ErrInvalidTransition)
}

func TestCompletingSeatedGuestReleasesTable(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	guest := seedGuest(t, db, "walkout", 2, models.GuestWaiting)
	table := seedTable(t, db, "T10", 4, models.TableAvailable)

	_, _, err := svc.Seat(guest.ID, table.ID)
	require.NoError(t, err)

	updated, err := svc.MoveQueueStatus(guest.ID, models.GuestCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.GuestCompleted, updated.Status)
	assert.Nil(t, updated.TableNumber)

	var reread models.Table
	require.NoError(t, db.First(&reread, table.ID).Error)
	assert.Equal(t, models.TableCleaning, reread.Status)
	assert.Nil(t, reread.CurrentGuestID)
	checkFloorInvariants(t, db)
}

func TestReserveAndSeatHolder(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	holder := seedGuest(t, db, "holder", 2, models.GuestWaiting)
	stranger := seedGuest(t, db, "stranger", 2, models.GuestWaiting)
	table := seedTable(t, db, "T11", 4, models.TableAvailable)

	guest, reserved, err := svc.Reserve(holder.ID, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GuestReserved, guest.Status)
	assert.Equal(t, models.TableReserved, reserved.Status)
	require.NotNil(t, reserved.ReservedForID)
	assert.Equal(t, holder.ID, *reserved.ReservedForID)

	// Someone else cannot take the held table.
	_, _, err = svc.Seat(stranger.ID, table.ID)
	assert.ErrorIs(t, err, seating.ErrTableUnavailable)

	// The holder arriving seats directly and clears the hold.
	seatedGuest, seatedTable, err := svc.Seat(holder.ID, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GuestSeated, seatedGuest.Status)
	assert.Equal(t, models.TableOccupied, seatedTable.Status)
	assert.Nil(t, seatedTable.ReservedForID)
	checkFloorInvariants(t, db)
}

func TestReserveValidations(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	big := seedGuest(t, db, "big-party", 8, models.GuestWaiting)
	small := seedTable(t, db, "T12", 4, models.TableAvailable)

	_, _, err := svc.Reserve(big.ID, small.ID)
	assert.ErrorIs(t, err, seating.ErrCapacityExceeded)

	// Only waiting guests take holds.
	seatedGuest := seedGuest(t, db, "already-seated", 2, models.GuestSeated)
	tn := "Tx"
	db.Model(&seatedGuest).Update("table_number", tn)
	_, _, err = svc.Reserve(seatedGuest.ID, small.ID)
	assert.ErrorIs(t, err, seating.ErrInvalidTransition)
}

func TestCancelReservation(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	holder := seedGuest(t, db, "flake", 2, models.GuestWaiting)
	table := seedTable(t, db, "T13", 4, models.TableAvailable)

	_, _, err := svc.Reserve(holder.ID, table.ID)
	require.NoError(t, err)

	released, err := svc.CancelReservation(table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, released.Status)
	assert.Nil(t, released.ReservedForID)

	var guest models.Guest
	require.NoError(t, db.First(&guest, holder.ID).Error)
	assert.Equal(t, models.GuestWaiting, guest.Status)

	// Cancelling a non-reserved table is an invalid transition.
	_, err = svc.CancelReservation(table.ID)
	assert.ErrorIs(t, err, seating.ErrInvalidTransition)
	checkFloorInvariants(t, db)
}

func countChanges(t *testing.T, db *gorm.DB, tableName, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.DBChange{}).
		Where("table_name = ? AND action_type = ? AND processed = ?", tableName, action, false).
		Count(&n).Error)
	return n
}

func TestChangeJournalOnSqlite(t *testing.T) {
	db := setupSeatingDB(t)
	require.NoError(t, db.AutoMigrate(&models.DBChange{}))
	svc := NewSeatingService(db, nil)

	guest := seedGuest(t, db, "journaled", 2, models.GuestWaiting)
	table := seedTable(t, db, "J1", 4, models.TableAvailable)

	assert.EqualValues(t, 1, countChanges(t, db, "guests", "INSERT"))
	assert.EqualValues(t, 1, countChanges(t, db, "tables", "INSERT"))

	_, _, err := svc.Seat(guest.ID, table.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countChanges(t, db, "guests", "UPDATE"))
	assert.EqualValues(t, 1, countChanges(t, db, "tables", "UPDATE"))

	extra := seedGuest(t, db, "leaving", 2, models.GuestWaiting)
	require.NoError(t, db.Delete(&extra).Error)
	assert.EqualValues(t, 1, countChanges(t, db, "guests", "DELETE"))
}

func TestSeatingEmitsNotifications(t *testing.T) {
	db := setupSeatingDB(t)
	svc := NewSeatingService(db, nil)

	guest := seedGuest(t, db, "notified", 2, models.GuestWaiting)
	table := seedTable(t, db, "T14", 2, models.TableAvailable)

	_, _, err := svc.Seat(guest.ID, table.ID)
	require.NoError(t, err)

	var notifs []models.Notification
	require.NoError(t, db.Find(&notifs).Error)
	require.NotEmpty(t, notifs)
	assert.Equal(t, "success", notifs[0].Kind)
	assert.Contains(t, notifs[0].Message, "T14")
}
