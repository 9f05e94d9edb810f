package models

import "time"

type UserRole string

const (
	RolePlayer    UserRole = "player"
	RoleTeam      UserRole = "team"
	RoleSponsor   UserRole = "sponsor"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	Profile *Profile `json:"profile,omitempty"`
}
