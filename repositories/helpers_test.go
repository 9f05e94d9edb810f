package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, defaultListLimit},
		{-5, defaultListLimit},
		{10, 10},
		{maxListLimit + 1, maxListLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeLimit(tt.in))
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%john%", likePattern("john"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
