// Package brackets строит предварительную сетку турнира по зарегистрированным командам.
package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/sportshive/models"
)

var (
	ErrNotEnoughTeams    = errors.New("at least two teams are required to build a bracket")
	ErrUnsupportedFormat = errors.New("bracket preview is not supported for this format")
	ErrDuplicateTeam     = errors.New("team appears in the bracket more than once")
)

type Generator interface {
	// Generate получает команды в порядке посева (первая сильнейшая).
	Generate(teamIDs []int) ([]models.Fixture, error)
	Name() string
}

func ForFormat(format models.TournamentFormat) (Generator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(1), nil
	case models.FormatLeague:
		return NewRoundRobinGenerator(2), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func validateTeams(teamIDs []int) error {
	if len(teamIDs) < 2 {
		return ErrNotEnoughTeams
	}
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func fixtureKey(round, order int) string {
	return fmt.Sprintf("R%dM%d", round, order)
}

// RoundCount возвращает номер последнего раунда.
func RoundCount(fixtures []models.Fixture) int {
	rounds := 0
	for _, f := range fixtures {
		if f.Round > rounds {
			rounds = f.Round
		}
	}
	return rounds
}
