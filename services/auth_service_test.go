package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/repositories/mocks"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		input      RegisterInput
		setupMocks func(ur *mocks.UserRepository)
		wantRole   models.UserRole
		wantErr    error
	}{
		{
			name:  "Success: default role is player",
			input: RegisterInput{Email: " Alice@Example.com ", Password: "password1"},
			setupMocks: func(ur *mocks.UserRepository) {
				ur.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return u.Email == "alice@example.com" &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")) == nil
				})).Return(nil)
			},
			wantRole: models.RolePlayer,
		},
		{
			name:  "Success: organizer role",
			input: RegisterInput{Email: "org@example.com", Password: "password1", Role: models.RoleOrganizer},
			setupMocks: func(ur *mocks.UserRepository) {
				ur.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			wantRole: models.RoleOrganizer,
		},
		{
			name:       "Error: short password",
			input:      RegisterInput{Email: "a@example.com", Password: "short"},
			setupMocks: func(ur *mocks.UserRepository) {},
			wantErr:    ErrPasswordTooShort,
		},
		{
			name:       "Error: invalid email",
			input:      RegisterInput{Email: "not-an-email", Password: "password1"},
			setupMocks: func(ur *mocks.UserRepository) {},
			wantErr:    ErrInvalidEmail,
		},
		{
			name:       "Error: admin cannot self-register",
			input:      RegisterInput{Email: "a@example.com", Password: "password1", Role: models.RoleAdmin},
			setupMocks: func(ur *mocks.UserRepository) {},
			wantErr:    ErrInvalidRole,
		},
		{
			name:  "Error: email taken",
			input: RegisterInput{Email: "a@example.com", Password: "password1"},
			setupMocks: func(ur *mocks.UserRepository) {
				ur.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrUserEmailConflict)
			},
			wantErr: ErrUserEmailConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ur := new(mocks.UserRepository)
			tt.setupMocks(ur)

			svc := NewAuthService(ur)
			user, err := svc.Register(context.Background(), tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, user.Role)
				assert.Empty(t, user.PasswordHash)
			}
			ur.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := func() *models.User {
		return &models.User{ID: 7, Email: "a@example.com", PasswordHash: string(hash), Role: models.RolePlayer}
	}

	tests := []struct {
		name       string
		input      LoginInput
		setupMocks func(ur *mocks.UserRepository)
		wantErr    error
	}{
		{
			name:  "Success",
			input: LoginInput{Email: "A@example.com", Password: "password1"},
			setupMocks: func(ur *mocks.UserRepository) {
				ur.On("GetByEmail", mock.Anything, "a@example.com").Return(stored(), nil)
			},
		},
		{
			name:  "Error: wrong password",
			input: LoginInput{Email: "a@example.com", Password: "password2"},
			setupMocks: func(ur *mocks.UserRepository) {
				ur.On("GetByEmail", mock.Anything, "a@example.com").Return(stored(), nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:  "Error: unknown email",
			input: LoginInput{Email: "nobody@example.com", Password: "password1"},
			setupMocks: func(ur *mocks.UserRepository) {
				ur.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, repositories.ErrUserNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ur := new(mocks.UserRepository)
			tt.setupMocks(ur)

			user, err := NewAuthService(ur).Login(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, user.ID)
			assert.Empty(t, user.PasswordHash)
		})
	}
}
