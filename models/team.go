package models

import "time"

type TeamMemberRole string

const (
	TeamRoleCaptain TeamMemberRole = "captain"
	TeamRoleMember  TeamMemberRole = "member"
)

type Team struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Sport       string    `json:"sport" db:"sport"`
	Description *string   `json:"description,omitempty" db:"description"`
	Location    *string   `json:"location,omitempty" db:"location"`
	CaptainID   int       `json:"captain_id" db:"captain_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Members     []TeamMember `json:"members,omitempty" db:"-"`
	MemberCount int          `json:"member_count" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type TeamMember struct {
	TeamID   int            `json:"team_id" db:"team_id"`
	UserID   int            `json:"user_id" db:"user_id"`
	Role     TeamMemberRole `json:"role" db:"role"`
	JoinedAt time.Time      `json:"joined_at" db:"joined_at"`

	Profile *Profile `json:"profile,omitempty" db:"-"`
}

type TeamFilter struct {
	Query  string
	Sport  string
	Limit  int
	Offset int
}
