// Package store keeps an in-process snapshot of one restaurant's guests
// and tables, refreshed by the change monitor. It is a read-side cache:
// it does no validation, and every write still goes through the seating
// service and the database.
package store

import (
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/hostsuite/frontdesk/models"
)

// Change kinds reported to listeners.
const (
	KindGuest = "guest"
	KindTable = "table"
)

// ChangeListener is called after the snapshot applied a change.
type ChangeListener func(kind, action string, id uint)

type EntityStore struct {
	db           *gorm.DB
	restaurantID uint

	mu        sync.RWMutex
	guests    map[uint]models.Guest
	tables    map[uint]models.Table
	listeners []ChangeListener
}

// NewEntityStore builds a snapshot scoped to one restaurant. The
// restaurant ID is explicit here so nothing reads it from ambient state.
func NewEntityStore(db *gorm.DB, restaurantID uint) *EntityStore {
	return &EntityStore{
		db:           db,
		restaurantID: restaurantID,
		guests:       make(map[uint]models.Guest),
		tables:       make(map[uint]models.Table),
	}
}

// RestaurantID returns the restaurant this store is scoped to.
func (s *EntityStore) RestaurantID() uint {
	return s.restaurantID
}

// Refresh reloads both collections from the database.
func (s *EntityStore) Refresh() error {
	var guests []models.Guest
	if err := s.db.Where("restaurant_id = ?", s.restaurantID).Find(&guests).Error; err != nil {
		return err
	}
	var tables []models.Table
	if err := s.db.Where("restaurant_id = ?", s.restaurantID).Find(&tables).Error; err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.guests = make(map[uint]models.Guest, len(guests))
	for _, g := range guests {
		s.guests[g.ID] = g
	}
	s.tables = make(map[uint]models.Table, len(tables))
	for _, t := range tables {
		s.tables[t.ID] = t
	}
	return nil
}

// Guest looks up one guest by id.
func (s *EntityStore) Guest(id uint) (models.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.guests[id]
	return g, ok
}

// Guests returns all guests ordered by arrival.
func (s *EntityStore) Guests() []models.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Guest, 0, len(s.guests))
	for _, g := range s.guests {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Waitlist returns guests still waiting, in arrival order.
func (s *EntityStore) Waitlist() []models.Guest {
	all := s.Guests()
	out := make([]models.Guest, 0, len(all))
	for _, g := range all {
		if g.Status == models.GuestWaiting {
			out = append(out, g)
		}
	}
	return out
}

// Table looks up one table by id.
func (s *EntityStore) Table(id uint) (models.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	return t, ok
}

// Tables returns all tables ordered by table number.
func (s *EntityStore) Tables() []models.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out
}

// UpsertGuest replaces the cached guest and notifies listeners.
func (s *EntityStore) UpsertGuest(g models.Guest) {
	if g.RestaurantID != s.restaurantID {
		return
	}
	s.mu.Lock()
	_, existed := s.guests[g.ID]
	s.guests[g.ID] = g
	s.mu.Unlock()

	action := "INSERT"
	if existed {
		action = "UPDATE"
	}
	s.notify(KindGuest, action, g.ID)
}

// RemoveGuest drops the cached guest and notifies listeners.
func (s *EntityStore) RemoveGuest(id uint) {
	s.mu.Lock()
	_, existed := s.guests[id]
	delete(s.guests, id)
	s.mu.Unlock()
	if existed {
		s.notify(KindGuest, "DELETE", id)
	}
}

// UpsertTable replaces the cached table and notifies listeners.
func (s *EntityStore) UpsertTable(t models.Table) {
	if t.RestaurantID != s.restaurantID {
		return
	}
	s.mu.Lock()
	_, existed := s.tables[t.ID]
	s.tables[t.ID] = t
	s.mu.Unlock()

	action := "INSERT"
	if existed {
		action = "UPDATE"
	}
	s.notify(KindTable, action, t.ID)
}

// RemoveTable drops the cached table and notifies listeners.
func (s *EntityStore) RemoveTable(id uint) {
	s.mu.Lock()
	_, existed := s.tables[id]
	delete(s.tables, id)
	s.mu.Unlock()
	if existed {
		s.notify(KindTable, "DELETE", id)
	}
}

// OnChange registers a listener for snapshot changes. Listeners are
// called synchronously after the change is applied.
func (s *EntityStore) OnChange(l ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *EntityStore) notify(kind, action string, id uint) {
	s.mu.RLock()
	listeners := make([]ChangeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(kind, action, id)
	}
}

// ApplyChange re-reads one changed record from the database and folds it
// into the snapshot. Used by the change monitor.
func (s *EntityStore) ApplyChange(change models.DBChange) error {
	switch change.TableName {
	case "guests":
		if change.ActionType == "DELETE" {
			s.RemoveGuest(uint(change.RecordID))
			return nil
		}
		var guest models.Guest
		if err := s.db.First(&guest, change.RecordID).Error; err != nil {
			return err
		}
		s.UpsertGuest(guest)
	case "tables":
		if change.ActionType == "DELETE" {
			s.RemoveTable(uint(change.RecordID))
			return nil
		}
		var table models.Table
		if err := s.db.First(&table, change.RecordID).Error; err != nil {
			return err
		}
		s.UpsertTable(table)
	}
	return nil
}
