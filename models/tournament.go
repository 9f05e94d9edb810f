package models

import "time"

// TournamentStatus представляет статусы турнира.
type TournamentStatus string

const (
	TournamentUpcoming     TournamentStatus = "upcoming"
	TournamentRegistration TournamentStatus = "registration"
	TournamentOngoing      TournamentStatus = "ongoing"
	TournamentCompleted    TournamentStatus = "completed"
	TournamentCancelled    TournamentStatus = "cancelled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentUpcoming, TournamentRegistration, TournamentOngoing, TournamentCompleted, TournamentCancelled:
		return true
	}
	return false
}

func (s TournamentStatus) Final() bool {
	return s == TournamentCompleted || s == TournamentCancelled
}

type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatLeague            TournamentFormat = "league"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin, FormatLeague:
		return true
	}
	return false
}

// Tournament представляет турнир.
type Tournament struct {
	ID                   int              `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	Description          *string          `json:"description,omitempty" db:"description"`
	Sport                string           `json:"sport" db:"sport"`
	Location             *string          `json:"location,omitempty" db:"location"`
	Format               TournamentFormat `json:"format" db:"format"`
	StartDate            time.Time        `json:"start_date" db:"start_date"`
	EndDate              time.Time        `json:"end_date" db:"end_date"`
	RegistrationDeadline *time.Time       `json:"registration_deadline,omitempty" db:"registration_deadline"`
	MaxTeams             int              `json:"max_teams" db:"max_teams"`
	EntryFee             float64          `json:"entry_fee" db:"entry_fee"`
	PrizePool            float64          `json:"prize_pool" db:"prize_pool"`
	Status               TournamentStatus `json:"status" db:"status"`
	OrganizerID          int              `json:"organizer_id" db:"organizer_id"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	LogoKey              *string          `json:"-" db:"logo_key"`
	LogoURL              *string          `json:"logo_url,omitempty" db:"-"`

	RegistrationCount int `json:"registration_count" db:"-"`
}

type TournamentFilter struct {
	Sport    string
	Status   *TournamentStatus
	Location string
	Query    string
	Limit    int
	Offset   int
}

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

type Registration struct {
	ID           int                `json:"id" db:"id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	TeamID       int                `json:"team_id" db:"team_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
