package models

import "time"

// InvitationKind различает приглашение от команды игроку и заявку игрока в команду.
type InvitationKind string

const (
	InvitationInvite  InvitationKind = "invite"
	InvitationRequest InvitationKind = "request"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationCancelled InvitationStatus = "cancelled"
)

type Invitation struct {
	ID          int              `json:"id" db:"id"`
	TeamID      int              `json:"team_id" db:"team_id"`
	UserID      int              `json:"user_id" db:"user_id"`
	Kind        InvitationKind   `json:"kind" db:"kind"`
	Status      InvitationStatus `json:"status" db:"status"`
	Message     *string          `json:"message,omitempty" db:"message"`
	CreatedBy   int              `json:"created_by" db:"created_by"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	ExpiresAt   time.Time        `json:"expires_at" db:"expires_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty" db:"responded_at"`

	Team    *Team    `json:"team,omitempty" db:"-"`
	Profile *Profile `json:"profile,omitempty" db:"-"`
}

func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
