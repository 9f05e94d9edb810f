package models

// Fixture описывает одну встречу в сетке турнира. Вместо команды может стоять
// ссылка на победителя предыдущей встречи (HomeFrom/AwayFrom).
type Fixture struct {
	Key        string  `json:"key"`
	Round      int     `json:"round"`
	Order      int     `json:"order"`
	HomeTeamID *int    `json:"home_team_id,omitempty"`
	AwayTeamID *int    `json:"away_team_id,omitempty"`
	HomeFrom   *string `json:"home_from,omitempty"`
	AwayFrom   *string `json:"away_from,omitempty"`
	Bye        bool    `json:"bye"`
}

type BracketPreview struct {
	TournamentID int              `json:"tournament_id"`
	Format       TournamentFormat `json:"format"`
	Generator    string           `json:"generator"`
	Rounds       int              `json:"rounds"`
	Teams        []Team           `json:"teams"`
	Fixtures     []Fixture        `json:"fixtures"`
}
