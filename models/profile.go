package models

import "time"

// ProfileType определяет вид профиля: игрок, команда, спонсор или организатор.
type ProfileType string

const (
	ProfilePlayer    ProfileType = "player"
	ProfileTeam      ProfileType = "team"
	ProfileSponsor   ProfileType = "sponsor"
	ProfileOrganizer ProfileType = "organizer"
)

// UnknownLocation подставляется вместо пустой локации в ответах API.
const UnknownLocation = "Unknown"

func (t ProfileType) Valid() bool {
	switch t {
	case ProfilePlayer, ProfileTeam, ProfileSponsor, ProfileOrganizer:
		return true
	}
	return false
}

type Profile struct {
	UserID       int         `json:"user_id" db:"user_id"`
	ProfileType  ProfileType `json:"profile_type" db:"profile_type"`
	DisplayName  string      `json:"display_name" db:"display_name"`
	Username     *string     `json:"username,omitempty" db:"username"`
	Bio          *string     `json:"bio,omitempty" db:"bio"`
	Location     *string     `json:"location,omitempty" db:"location"`
	Sport        *string     `json:"sport,omitempty" db:"sport"`
	Position     *string     `json:"position,omitempty" db:"position"`
	SkillLevel   *string     `json:"skill_level,omitempty" db:"skill_level"`
	Organization *string     `json:"organization,omitempty" db:"organization"`
	Website      *string     `json:"website,omitempty" db:"website"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}

type ProfileFilter struct {
	Query       string
	Type        *ProfileType
	Sport       string
	Location    string
	ExcludeUser int
	Limit       int
	Offset      int
}

// ProfileOverview собирает данные для страницы профиля.
type ProfileOverview struct {
	Profile          *Profile         `json:"profile"`
	Teams            []Team           `json:"teams"`
	ConnectionsCount int              `json:"connections_count"`
	ConnectionStatus ConnectionStatus `json:"connection_status,omitempty"`
}

// SessionStatus отдаёт клиенту всё, что нужно для защиты маршрутов.
type SessionStatus struct {
	UserID          int          `json:"user_id"`
	Role            UserRole     `json:"role"`
	HasProfile      bool         `json:"has_profile"`
	ProfileComplete bool         `json:"profile_complete"`
	ProfileType     *ProfileType `json:"profile_type,omitempty"`
	MissingFields   []string     `json:"missing_fields"`
	Redirect        string       `json:"redirect"`
}
