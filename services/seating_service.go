package services

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/hub"
	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/seating"
	"github.com/hostsuite/frontdesk/store"
	"github.com/hostsuite/frontdesk/utils"
)

// SeatingService applies seating decisions. Every multi-entity
// transition runs inside one database transaction and under a
// per-restaurant lock, so the guest/table invariants are never observed
// half-applied and two hosts cannot race for the same table.
type SeatingService struct {
	db    *gorm.DB
	store *store.EntityStore // optional read-side snapshot, kept warm after commits
	locks sync.Map           // restaurantID -> *sync.Mutex
}

func NewSeatingService(db *gorm.DB, st *store.EntityStore) *SeatingService {
	return &SeatingService{db: db, store: st}
}

func (s *SeatingService) lockFor(restaurantID uint) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(restaurantID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// wrapDB keeps not-found errors recognizable for the HTTP layer and
// folds everything else into the persistence error.
func wrapDB(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", seating.ErrPersistence, err)
}

// Seat assigns guest guestID to table tableID. Preconditions: CanSeat
// approves and the guest is waiting or reserved. Both mutations commit
// together or not at all.
func (s *SeatingService) Seat(guestID, tableID uint) (*models.Guest, *models.Table, error) {
	var guest models.Guest
	if err := s.db.First(&guest, guestID).Error; err != nil {
		return nil, nil, wrapDB(err)
	}

	lock := s.lockFor(guest.RestaurantID)
	lock.Lock()
	defer lock.Unlock()

	var table models.Table
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&guest, guestID).Error; err != nil {
			return wrapDB(err)
		}
		if err := tx.First(&table, tableID).Error; err != nil {
			return wrapDB(err)
		}

		if guest.Status != models.GuestWaiting && guest.Status != models.GuestReserved {
			return fmt.Errorf("%w: guest is %s", seating.ErrInvalidTransition, guest.Status)
		}
		if _, err := seating.CanSeat(&guest, &table); err != nil {
			return err
		}

		guest.Status = models.GuestSeated
		guest.TableNumber = &table.TableNumber
		table.Status = models.TableOccupied
		table.CurrentGuestID = &guest.ID
		table.ReservedForID = nil

		if err := tx.Save(&guest).Error; err != nil {
			return wrapDB(err)
		}
		if err := tx.Save(&table).Error; err != nil {
			return wrapDB(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.afterCommit(&guest, &table)
	hub.BroadcastGuestSeated(guest, table)
	s.notifyStaff(guest.RestaurantID,
		fmt.Sprintf("%s (party of %d) seated at table %s", guest.Name, guest.PartySize, table.TableNumber),
		"success")
	utils.InfoLogger.Printf("Guest %d seated at table %s", guest.ID, table.TableNumber)

	return &guest, &table, nil
}

// ClearTable moves an occupied table to cleaning and completes the
// departing guest. Clearing a table that is already cleaning or
// available is a no-op (cleared=false), not an error.
func (s *SeatingService) ClearTable(tableID uint) (*models.Table, *models.Guest, bool, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		return nil, nil, false, wrapDB(err)
	}

	lock := s.lockFor(table.RestaurantID)
	lock.Lock()
	defer lock.Unlock()

	var guest *models.Guest
	cleared := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, tableID).Error; err != nil {
			return wrapDB(err)
		}

		switch table.Status {
		case models.TableCleaning, models.TableAvailable:
			return nil // already cleared
		case models.TableOccupied:
			// proceed
		default:
			return fmt.Errorf("%w: cannot clear a %s table", seating.ErrInvalidTransition, table.Status)
		}

		if table.CurrentGuestID != nil {
			var g models.Guest
			if err := tx.First(&g, *table.CurrentGuestID).Error; err == nil {
				g.Status = models.GuestCompleted
				g.TableNumber = nil
				if err := tx.Save(&g).Error; err != nil {
					return wrapDB(err)
				}
				guest = &g
			}
		}

		table.Status = models.TableCleaning
		table.CurrentGuestID = nil
		if err := tx.Save(&table).Error; err != nil {
			return wrapDB(err)
		}

		cleaningLog := models.CleaningLog{TableID: table.ID, Status: "pending"}
		if err := tx.Create(&cleaningLog).Error; err != nil {
			return wrapDB(err)
		}

		cleared = true
		return nil
	})
	if err != nil {
		return nil, nil, false, err
	}

	if cleared {
		s.afterCommit(guest, &table)
		hub.BroadcastTableCleared(table, guest)
		s.notifyStaff(table.RestaurantID,
			fmt.Sprintf("Table %s cleared, waiting on cleaning", table.TableNumber), "info")
		utils.InfoLogger.Printf("Table %s cleared", table.TableNumber)
	}
	return &table, guest, cleared, nil
}

// MarkAvailable puts a cleaned table back in rotation.
func (s *SeatingService) MarkAvailable(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		return nil, wrapDB(err)
	}

	lock := s.lockFor(table.RestaurantID)
	lock.Lock()
	defer lock.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, tableID).Error; err != nil {
			return wrapDB(err)
		}
		if table.Status != models.TableCleaning {
			return fmt.Errorf("%w: table is %s, not cleaning", seating.ErrInvalidTransition, table.Status)
		}

		table.Status = models.TableAvailable
		if err := tx.Save(&table).Error; err != nil {
			return wrapDB(err)
		}

		// Close the open cleaning log for this table, if any.
		if err := tx.Model(&models.CleaningLog{}).
			Where("table_id = ? AND status = ?", table.ID, "pending").
			Update("status", "done").Error; err != nil {
			return wrapDB(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(nil, &table)
	hub.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %s back to available", table.TableNumber)
	return &table, nil
}

// MoveQueueStatus applies a manual guest status change. Seating proper
// has to go through Seat, so "seated" is rejected here. Completing a
// seated guest also releases their table into cleaning, keeping the
// occupied <-> current-guest invariant intact.
func (s *SeatingService) MoveQueueStatus(guestID uint, newStatus string) (*models.Guest, error) {
	if !seating.ValidGuestStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", seating.ErrInvalidTransition, newStatus)
	}
	if newStatus == models.GuestSeated {
		return nil, fmt.Errorf("%w: seating requires a table", seating.ErrInvalidTransition)
	}

	var guest models.Guest
	if err := s.db.First(&guest, guestID).Error; err != nil {
		return nil, wrapDB(err)
	}

	lock := s.lockFor(guest.RestaurantID)
	lock.Lock()
	defer lock.Unlock()

	var clearedTable *models.Table
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&guest, guestID).Error; err != nil {
			return wrapDB(err)
		}
		if !seating.GuestCanMove(guest.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", seating.ErrInvalidTransition, guest.Status, newStatus)
		}

		if newStatus == models.GuestCompleted {
			// A seated guest leaving takes their table to cleaning.
			if guest.Status == models.GuestSeated {
				var table models.Table
				if err := tx.Where("current_guest_id = ?", guest.ID).First(&table).Error; err == nil {
					table.Status = models.TableCleaning
					table.CurrentGuestID = nil
					if err := tx.Save(&table).Error; err != nil {
						return wrapDB(err)
					}
					cleaningLog := models.CleaningLog{TableID: table.ID, Status: "pending"}
					if err := tx.Create(&cleaningLog).Error; err != nil {
						return wrapDB(err)
					}
					clearedTable = &table
				}
			}
			// A reserved guest cancelling releases their held table.
			if guest.Status == models.GuestReserved {
				var table models.Table
				if err := tx.Where("reserved_for_id = ? AND status = ?", guest.ID, models.TableReserved).
					First(&table).Error; err == nil {
					table.Status = models.TableAvailable
					table.ReservedForID = nil
					if err := tx.Save(&table).Error; err != nil {
						return wrapDB(err)
					}
					clearedTable = &table
				}
			}
		}

		guest.Status = newStatus
		guest.TableNumber = nil
		if err := tx.Save(&guest).Error; err != nil {
			return wrapDB(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(&guest, clearedTable)
	hub.BroadcastGuestUpdate(guest)
	if clearedTable != nil {
		hub.BroadcastTableUpdate(*clearedTable)
	}
	utils.InfoLogger.Printf("Guest %d moved to %s", guest.ID, guest.Status)
	return &guest, nil
}

// Reserve holds table tableID for a waiting guest: guest -> reserved,
// table -> reserved with the hold recorded.
func (s *SeatingService) Reserve(guestID, tableID uint) (*models.Guest, *models.Table, error) {
	var guest models.Guest
	if err := s.db.First(&guest, guestID).Error; err != nil {
		return nil, nil, wrapDB(err)
	}

	lock := s.lockFor(guest.RestaurantID)
	lock.Lock()
	defer lock.Unlock()

	var table models.Table
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&guest, guestID).Error; err != nil {
			return wrapDB(err)
		}
		if err := tx.First(&table, tableID).Error; err != nil {
			return wrapDB(err)
		}

		if table.RestaurantID != guest.RestaurantID {
			return fmt.Errorf("%w: table %s belongs to another restaurant", seating.ErrTableUnavailable, table.TableNumber)
		}
		if guest.Status != models.GuestWaiting {
			return fmt.Errorf("%w: guest is %s", seating.ErrInvalidTransition, guest.Status)
		}
		if table.Status != models.TableAvailable {
			return fmt.Errorf("%w: table %s is %s", seating.ErrTableUnavailable, table.TableNumber, table.Status)
		}
		if table.Capacity < guest.PartySize {
			return fmt.Errorf("%w: table %s seats %d, party of %d",
				seating.ErrCapacityExceeded, table.TableNumber, table.Capacity, guest.PartySize)
		}

		guest.Status = models.GuestReserved
		table.Status = models.TableReserved
		table.ReservedForID = &guest.ID

		if err := tx.Save(&guest).Error; err != nil {
			return wrapDB(err)
		}
		if err := tx.Save(&table).Error; err != nil {
			return wrapDB(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.afterCommit(&guest, &table)
	hub.BroadcastGuestUpdate(guest)
	hub.BroadcastTableUpdate(table)
	s.notifyStaff(guest.RestaurantID,
		fmt.Sprintf("Table %s held for %s", table.TableNumber, guest.Name), "info")
	return &guest, &table, nil
}

// CancelReservation releases a held table. The holding guest drops back
// to waiting unless they already moved on.
func (s *SeatingService) CancelReservation(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		return nil, wrapDB(err)
	}

	lock := s.lockFor(table.RestaurantID)
	lock.Lock()
	defer lock.Unlock()

	var guest *models.Guest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, tableID).Error; err != nil {
			return wrapDB(err)
		}
		if table.Status != models.TableReserved {
			return fmt.Errorf("%w: table is %s, not reserved", seating.ErrInvalidTransition, table.Status)
		}

		if table.ReservedForID != nil {
			var g models.Guest
			if err := tx.First(&g, *table.ReservedForID).Error; err == nil && g.Status == models.GuestReserved {
				g.Status = models.GuestWaiting
				if err := tx.Save(&g).Error; err != nil {
					return wrapDB(err)
				}
				guest = &g
			}
		}

		table.Status = models.TableAvailable
		table.ReservedForID = nil
		if err := tx.Save(&table).Error; err != nil {
			return wrapDB(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(guest, &table)
	hub.BroadcastTableUpdate(table)
	if guest != nil {
		hub.BroadcastGuestUpdate(*guest)
	}
	return &table, nil
}

// afterCommit folds committed entities into the snapshot store.
func (s *SeatingService) afterCommit(guest *models.Guest, table *models.Table) {
	if s.store == nil {
		return
	}
	if guest != nil {
		s.store.UpsertGuest(*guest)
	}
	if table != nil {
		s.store.UpsertTable(*table)
	}
}

// notifyStaff records a notification row and pushes it to the dashboard.
// Failures here are logged, never surfaced: the transition already
// committed.
func (s *SeatingService) notifyStaff(restaurantID uint, message, kind string) {
	notif := models.Notification{RestaurantID: restaurantID, Message: message, Kind: kind}
	if err := s.db.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to record notification: %v", err)
	}
	hub.BroadcastStaffNotification(message, kind)
}
