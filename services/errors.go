package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed         = errors.New("validation failed")
	ErrPasswordTooShort         = errors.New("password must be at least 8 characters long")
	ErrInvalidEmail             = errors.New("email address is invalid")
	ErrInvalidRole              = errors.New("invalid account role")
	ErrInvalidProfileType       = errors.New("invalid profile type")
	ErrDisplayNameRequired      = errors.New("display name is required")
	ErrDisplayNameTooLong       = errors.New("display name must be at most 100 characters")
	ErrInvalidUsername          = errors.New("username must be 3-30 characters of lowercase letters, digits or underscores")
	ErrTeamNameRequired         = errors.New("team name is required")
	ErrCannotRemoveCaptain      = errors.New("cannot remove the team captain")
	ErrInvitationExpired        = errors.New("invitation has expired")
	ErrSelfConnection           = errors.New("cannot connect with yourself")
	ErrUnsupportedFileType      = errors.New("unsupported file type")
	ErrFileTooLarge             = errors.New("file is too large")
	ErrRegistrationNotOpen      = errors.New("tournament registration is not open")
	ErrTournamentFull           = errors.New("tournament registration is full")
	ErrTournamentNameRequired   = errors.New("tournament name is required")
	ErrTournamentSportRequired  = errors.New("tournament sport is required")
	ErrTournamentDatesRequired  = errors.New("tournament start and end dates are required")
	ErrTournamentInvalidDates   = errors.New("tournament start date must be before end date")
	ErrTournamentInvalidRegDate = errors.New("registration deadline cannot be after start date")
	ErrTournamentInvalidTeams   = errors.New("tournament max teams must be positive")
	ErrTournamentInvalidFormat  = errors.New("invalid tournament format")
	ErrTournamentInvalidMoney   = errors.New("entry fee and prize pool cannot be negative")
	ErrTournamentInvalidStatus  = errors.New("invalid tournament status provided")
	ErrTournamentStatusChange   = errors.New("invalid tournament status transition")
	ErrChatMessagesRequired     = errors.New("at least one chat message is required")
	ErrChatInvalidMessage       = errors.New("chat messages need a valid role and non-empty content")
	ErrBracketNotEnoughTeams    = errors.New("at least two registered teams are required to build a bracket")
	ErrBracketUnsupportedFormat = errors.New("bracket preview is not available for this tournament format")

	// Ошибки конфликтов
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUsernameConflict     = errors.New("username is already in use")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrAlreadyTeamMember    = errors.New("user is already a member of this team")
	ErrInvitationConflict   = errors.New("a pending invitation or join request already exists")
	ErrInvitationNotPending = errors.New("invitation is no longer pending")
	ErrConnectionExists     = errors.New("connection or pending request already exists")
	ErrConnectionNotPending = errors.New("connection request is no longer pending")
	ErrRegistrationConflict = errors.New("team is already registered for this tournament")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrCaptainActionForbidden = errors.New("only the team captain can perform this action")
	ErrOrganizerOnly          = errors.New("only the tournament organizer can perform this action")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrConnectionNotFound = errors.New("connection not found")

	// Внешние зависимости
	ErrStorageUnavailable = errors.New("file storage is not configured")
	ErrChatNotConfigured  = errors.New("chat is not configured")
	ErrChatUpstream       = errors.New("chat completion request failed")
	ErrCleanupFailed      = errors.New("cleanup job failed")
)
