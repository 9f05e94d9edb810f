package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sportshive/repositories/mocks"
)

func TestCleanupService_Run(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(mocks.MaintenanceRepository)
		repo.On("CleanupStaleRows", mock.Anything).Return(int64(12), nil)

		n, err := NewCleanupService(repo, discardLogger()).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(12), n)
	})

	t.Run("Failure", func(t *testing.T) {
		repo := new(mocks.MaintenanceRepository)
		repo.On("CleanupStaleRows", mock.Anything).Return(int64(0), errors.New("function does not exist"))

		_, err := NewCleanupService(repo, discardLogger()).Run(context.Background())
		assert.ErrorIs(t, err, ErrCleanupFailed)
	})
}
