package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   PoolOptions
		want PoolOptions
	}{
		{
			name: "zero value",
			in:   PoolOptions{},
			want: DefaultPoolOptions(),
		},
		{
			name: "idle capped by open",
			in:   PoolOptions{MaxOpenConns: 10, MaxIdleConns: 50},
			want: PoolOptions{MaxOpenConns: 10, MaxIdleConns: 10, ConnMaxLifetime: 5 * time.Minute, PingTimeout: 5 * time.Second},
		},
		{
			name: "explicit values kept",
			in:   PoolOptions{MaxOpenConns: 8, MaxIdleConns: 4, ConnMaxLifetime: time.Minute, PingTimeout: time.Second},
			want: PoolOptions{MaxOpenConns: 8, MaxIdleConns: 4, ConnMaxLifetime: time.Minute, PingTimeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.withDefaults())
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
	// up и down на каждую версию
	assert.Equal(t, 0, len(entries)%2)
}
