package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hostsuite/frontdesk/models"
)

// Event types pushed to host/manager dashboards.
const (
	EventGuestCreate     = "guest_create"
	EventGuestUpdate     = "guest_update"
	EventGuestDelete     = "guest_delete"
	EventGuestSeated     = "guest_seated"
	EventTableCreate     = "table_create"
	EventTableUpdate     = "table_update"
	EventTableDelete     = "table_delete"
	EventTableCleared    = "table_cleared"
	EventWaitlistUpdate  = "waitlist_update"
	EventMessageCreate   = "message_create"
	EventStaffNotif      = "staff_notification"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected dashboard client (host, manager, admin)
// keyed by connection with its role.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var floorHub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> add a connection with its role
func RegisterClient(conn *websocket.Conn, role string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = role
}

// UnregisterClient -> drop a connection
func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	conn.Close()
}

// ClientCount reports how many dashboard clients are connected.
func ClientCount() int {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	return len(floorHub.clients)
}

// BroadcastGuestCreate -> a new party joined the waitlist
func BroadcastGuestCreate(guest models.Guest) {
	broadcast(Message{Event: EventGuestCreate, Data: guest})
}

// BroadcastGuestUpdate -> guest status or details changed
func BroadcastGuestUpdate(guest models.Guest) {
	broadcast(Message{Event: EventGuestUpdate, Data: guest})
}

// BroadcastGuestDelete -> guest removed from the queue
func BroadcastGuestDelete(guestID uint) {
	broadcast(Message{Event: EventGuestDelete, Data: map[string]interface{}{"guest_id": guestID}})
}

// BroadcastGuestSeated -> a seat transition committed, both sides included
func BroadcastGuestSeated(guest models.Guest, table models.Table) {
	broadcast(Message{Event: EventGuestSeated, Data: map[string]interface{}{
		"guest": guest,
		"table": table,
	}})
}

// BroadcastTableCreate -> new table on the floor plan
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

// BroadcastTableUpdate -> table status or layout changed
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

// BroadcastTableDelete -> table removed from the floor plan
func BroadcastTableDelete(tableID uint) {
	broadcast(Message{Event: EventTableDelete, Data: map[string]interface{}{"table_id": tableID}})
}

// BroadcastTableCleared -> party left, table moved to cleaning
func BroadcastTableCleared(table models.Table, guest *models.Guest) {
	data := map[string]interface{}{"table": table}
	if guest != nil {
		data["guest"] = guest
	}
	broadcast(Message{Event: EventTableCleared, Data: data})
}

// BroadcastWaitlistUpdate -> full waitlist snapshot for the dashboard
func BroadcastWaitlistUpdate(waitlist []models.Guest) {
	broadcast(Message{Event: EventWaitlistUpdate, Data: waitlist})
}

// BroadcastMessageCreate -> an outbound guest message was logged
func BroadcastMessageCreate(msg models.Message) {
	broadcast(Message{Event: EventMessageCreate, Data: msg})
}

// BroadcastStaffNotification -> human-readable outcome for the staff UI
func BroadcastStaffNotification(message, kind string) {
	broadcast(Message{Event: EventStaffNotif, Data: map[string]interface{}{
		"message": message,
		"kind":    kind,
	}})
}

// BroadcastDashboardUpdate -> aggregate stats changed
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{Event: EventDashboardUpdate, Data: data})
}

// BroadcastMessage -> generic broadcast
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range floorHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s to %s client: %v", msg.Event, role, err)
			continue
		}
	}
}
