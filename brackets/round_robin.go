package brackets

import (
	"github.com/Dosada05/sportshive/models"
)

// RoundRobinGenerator строит турнир "каждый с каждым". При legs == 2 второй круг повторяет
// первый с обменом хозяев и гостей.
type RoundRobinGenerator struct {
	legs int
}

func NewRoundRobinGenerator(legs int) Generator {
	if legs < 1 {
		legs = 1
	}
	return &RoundRobinGenerator{legs: legs}
}

func (g *RoundRobinGenerator) Name() string {
	if g.legs > 1 {
		return "league"
	}
	return "round_robin"
}

// Generate строит расписание по круговому методу: первая позиция фиксирована,
// остальные сдвигаются на одну каждый тур. При нечётном числе команд
// одна из них в каждом туре отдыхает.
func (g *RoundRobinGenerator) Generate(teamIDs []int) ([]models.Fixture, error) {
	if err := validateTeams(teamIDs); err != nil {
		return nil, err
	}

	const rest = -1
	positions := make([]int, 0, len(teamIDs)+1)
	for i := range teamIDs {
		positions = append(positions, i)
	}
	if len(positions)%2 == 1 {
		positions = append(positions, rest)
	}

	m := len(positions)
	roundsPerLeg := m - 1
	fixtures := make([]models.Fixture, 0, g.legs*roundsPerLeg*m/2)

	type pairing struct{ home, away int }
	schedule := make([][]pairing, roundsPerLeg)

	for r := 0; r < roundsPerLeg; r++ {
		for i := 0; i < m/2; i++ {
			home, away := positions[i], positions[m-1-i]
			if home == rest || away == rest {
				continue
			}
			// Фиксированная команда чередует дом и выезд.
			if i == 0 && r%2 == 1 {
				home, away = away, home
			}
			schedule[r] = append(schedule[r], pairing{home: home, away: away})
		}

		last := positions[m-1]
		copy(positions[2:], positions[1:m-1])
		positions[1] = last
	}

	for leg := 0; leg < g.legs; leg++ {
		for r, pairings := range schedule {
			round := leg*roundsPerLeg + r + 1
			for i, p := range pairings {
				home, away := teamIDs[p.home], teamIDs[p.away]
				if leg%2 == 1 {
					home, away = away, home
				}
				fixtures = append(fixtures, models.Fixture{
					Key:        fixtureKey(round, i+1),
					Round:      round,
					Order:      i + 1,
					HomeTeamID: intRef(home),
					AwayTeamID: intRef(away),
				})
			}
		}
	}

	return fixtures, nil
}
