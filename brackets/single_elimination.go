package brackets

import (
	"github.com/Dosada05/sportshive/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "single_elimination"
}

// slot: участник следующего раунда: известная команда или победитель встречи.
type slot struct {
	teamID *int
	from   *string
}

// Generate раскладывает команды по стандартному посеву. Если команд не степень
// двойки, сильнейшие посевы проходят первый раунд без игры (bye).
func (g *SingleEliminationGenerator) Generate(teamIDs []int) ([]models.Fixture, error) {
	if err := validateTeams(teamIDs); err != nil {
		return nil, err
	}

	n := len(teamIDs)
	size := 1
	for size < n {
		size <<= 1
	}

	seeds := seedOrder(size)
	fixtures := make([]models.Fixture, 0, size-1)
	slots := make([]slot, 0, size/2)

	for i := 0; i < size; i += 2 {
		order := i/2 + 1
		key := fixtureKey(1, order)
		home, away := seeds[i], seeds[i+1]

		f := models.Fixture{Key: key, Round: 1, Order: order}
		switch {
		case home <= n && away <= n:
			f.HomeTeamID = intRef(teamIDs[home-1])
			f.AwayTeamID = intRef(teamIDs[away-1])
			slots = append(slots, slot{from: stringRef(key)})
		case home <= n:
			f.HomeTeamID = intRef(teamIDs[home-1])
			f.Bye = true
			slots = append(slots, slot{teamID: f.HomeTeamID})
		default:
			f.HomeTeamID = intRef(teamIDs[away-1])
			f.Bye = true
			slots = append(slots, slot{teamID: f.HomeTeamID})
		}
		fixtures = append(fixtures, f)
	}

	for round := 2; len(slots) > 1; round++ {
		next := make([]slot, 0, len(slots)/2)
		for i := 0; i < len(slots); i += 2 {
			order := i/2 + 1
			key := fixtureKey(round, order)
			fixtures = append(fixtures, models.Fixture{
				Key:        key,
				Round:      round,
				Order:      order,
				HomeTeamID: slots[i].teamID,
				HomeFrom:   slots[i].from,
				AwayTeamID: slots[i+1].teamID,
				AwayFrom:   slots[i+1].from,
			})
			next = append(next, slot{from: stringRef(key)})
		}
		slots = next
	}

	return fixtures, nil
}

// seedOrder возвращает порядок посевов в сетке размера size (степень двойки):
// 1 и 2 встречаются только в финале, 1..4 не раньше полуфинала и т.д.
func seedOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		m := len(order) * 2
		next := make([]int, 0, m)
		for _, s := range order {
			next = append(next, s, m+1-s)
		}
		order = next
	}
	return order
}

func intRef(v int) *int {
	return &v
}

func stringRef(v string) *string {
	return &v
}
