package models

import (
	"time"

	"gorm.io/gorm"
)

// journalChange writes a db_changes row inside the caller's transaction.
// On MySQL the database triggers own the journal, so the hooks stand
// down there. The table-existence check keeps partial schemas (tests
// migrating a subset of models) working.
func journalChange(tx *gorm.DB, tableName string, recordID uint, action string) error {
	if tx.Dialector.Name() == "mysql" {
		return nil
	}
	if !tx.Migrator().HasTable(&DBChange{}) {
		return nil
	}
	return tx.Create(&DBChange{
		TableName:  tableName,
		RecordID:   int64(recordID),
		ActionType: action,
		ChangedAt:  time.Now(),
	}).Error
}

func (g *Guest) AfterCreate(tx *gorm.DB) error { return journalChange(tx, "guests", g.ID, "INSERT") }
func (g *Guest) AfterUpdate(tx *gorm.DB) error { return journalChange(tx, "guests", g.ID, "UPDATE") }
func (g *Guest) AfterDelete(tx *gorm.DB) error { return journalChange(tx, "guests", g.ID, "DELETE") }

func (t *Table) AfterCreate(tx *gorm.DB) error { return journalChange(tx, "tables", t.ID, "INSERT") }
func (t *Table) AfterUpdate(tx *gorm.DB) error { return journalChange(tx, "tables", t.ID, "UPDATE") }
func (t *Table) AfterDelete(tx *gorm.DB) error { return journalChange(tx, "tables", t.ID, "DELETE") }

func (m *Message) AfterCreate(tx *gorm.DB) error { return journalChange(tx, "messages", m.ID, "INSERT") }
