package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/hub"
	"github.com/hostsuite/frontdesk/models"
	"github.com/hostsuite/frontdesk/store"
)

// ChangeMonitor polls the db_changes journal (filled by database
// triggers, or by this process on sqlite) and fans changes out: the
// entity store snapshot first, then the websocket hub.
type ChangeMonitor struct {
	DB       *gorm.DB
	Store    *store.EntityStore // optional
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB, st *store.EntityStore) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Store:    st,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		if cm.Store != nil {
			if err := cm.Store.ApplyChange(change); err != nil {
				log.Printf("Error applying change to store: %v", err)
			}
		}

		switch change.TableName {
		case "guests":
			cm.processGuestChange(change)
		case "tables":
			cm.processTableChange(change)
		case "messages":
			cm.processMessageChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing change batch: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 && cm.Store != nil {
		hub.BroadcastWaitlistUpdate(cm.Store.Waitlist())
	}
}

func (cm *ChangeMonitor) processGuestChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		hub.BroadcastGuestDelete(uint(change.RecordID))
		return
	}

	var guest models.Guest
	if err := cm.DB.First(&guest, change.RecordID).Error; err != nil {
		log.Printf("Error fetching guest: %v", err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		hub.BroadcastGuestCreate(guest)
	case "UPDATE":
		hub.BroadcastGuestUpdate(guest)
	}
}

func (cm *ChangeMonitor) processTableChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		hub.BroadcastTableDelete(uint(change.RecordID))
		return
	}

	var table models.Table
	if err := cm.DB.First(&table, change.RecordID).Error; err != nil {
		log.Printf("Error fetching table: %v", err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		hub.BroadcastTableCreate(table)
	case "UPDATE":
		hub.BroadcastTableUpdate(table)
	}
}

func (cm *ChangeMonitor) processMessageChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}

	var msg models.Message
	if err := cm.DB.First(&msg, change.RecordID).Error; err != nil {
		log.Printf("Error fetching message: %v", err)
		return
	}
	hub.BroadcastMessageCreate(msg)
}
