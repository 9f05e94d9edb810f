package models

import "time"

type ConnectionState string

const (
	ConnectionPending  ConnectionState = "pending"
	ConnectionAccepted ConnectionState = "accepted"
	ConnectionDeclined ConnectionState = "declined"
)

type Connection struct {
	ID          int             `json:"id"`
	RequesterID int             `json:"requester_id"`
	AddresseeID int             `json:"addressee_id"`
	Status      ConnectionState `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Профиль второй стороны относительно текущего пользователя.
	Profile *Profile `json:"profile,omitempty"`
}

// OtherParty возвращает id собеседника для userID.
func (c *Connection) OtherParty(userID int) int {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}

// ConnectionStatus: статус связи с точки зрения текущего пользователя.
type ConnectionStatus string

const (
	ConnectionStatusNone            ConnectionStatus = "none"
	ConnectionStatusPendingSent     ConnectionStatus = "pending_sent"
	ConnectionStatusPendingReceived ConnectionStatus = "pending_received"
	ConnectionStatusConnected       ConnectionStatus = "connected"
)
