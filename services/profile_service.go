package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/storage"
)

const maxDisplayNameLength = 100

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// Куда клиент отправляет пользователя после проверки сессии.
const (
	RedirectOnboarding         = "/onboarding"
	RedirectProfileEdit        = "/profile/edit"
	RedirectPlayerFeed         = "/feed"
	RedirectTeamDashboard      = "/team/dashboard"
	RedirectSponsorDashboard   = "/sponsor/dashboard"
	RedirectOrganizerDashboard = "/organizer/dashboard"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	UpsertProfile(ctx context.Context, userID int, input ProfileInput) (*models.Profile, error)
	SearchProfiles(ctx context.Context, currentUserID int, input ProfileSearchInput) ([]models.Profile, error)
	GetOverview(ctx context.Context, currentUserID, userID int) (*models.ProfileOverview, error)
	GetSessionStatus(ctx context.Context, userID int) (*models.SessionStatus, error)
	UploadAvatar(ctx context.Context, userID int, file ImageUpload) (*models.Profile, error)
}

type ProfileInput struct {
	ProfileType  models.ProfileType `json:"profile_type"`
	DisplayName  string             `json:"display_name"`
	Username     *string            `json:"username"`
	Bio          *string            `json:"bio"`
	Location     *string            `json:"location"`
	Sport        *string            `json:"sport"`
	Position     *string            `json:"position"`
	SkillLevel   *string            `json:"skill_level"`
	Organization *string            `json:"organization"`
	Website      *string            `json:"website"`
}

type ProfileSearchInput struct {
	Query    string
	Type     string
	Sport    string
	Location string
	Limit    int
	Offset   int
}

type profileService struct {
	profileRepo    repositories.ProfileRepository
	userRepo       repositories.UserRepository
	teamRepo       repositories.TeamRepository
	connectionRepo repositories.ConnectionRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	connectionRepo repositories.ConnectionRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		userRepo:       userRepo,
		teamRepo:       teamRepo,
		connectionRepo: connectionRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	}
	populateProfileDetails(profile, s.uploader)
	return profile, nil
}

func (s *profileService) UpsertProfile(ctx context.Context, userID int, input ProfileInput) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	profileType := input.ProfileType
	if profileType == "" {
		profileType = models.ProfileType(user.Role)
	}
	if !profileType.Valid() {
		return nil, ErrInvalidProfileType
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, ErrDisplayNameRequired
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return nil, ErrDisplayNameTooLong
	}

	username := trimmedPtr(input.Username)
	if username != nil {
		lowered := strings.ToLower(*username)
		if !usernamePattern.MatchString(lowered) {
			return nil, ErrInvalidUsername
		}
		username = &lowered
	}

	profile := &models.Profile{
		UserID:       userID,
		ProfileType:  profileType,
		DisplayName:  displayName,
		Username:     username,
		Bio:          trimmedPtr(input.Bio),
		Location:     trimmedPtr(input.Location),
		Sport:        trimmedPtr(input.Sport),
		Position:     trimmedPtr(input.Position),
		SkillLevel:   trimmedPtr(input.SkillLevel),
		Organization: trimmedPtr(input.Organization),
		Website:      trimmedPtr(input.Website),
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProfileUsernameConflict):
			return nil, ErrUsernameConflict
		case errors.Is(err, repositories.ErrProfileUserInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to save profile for user %d: %w", userID, err)
	}

	populateProfileDetails(profile, s.uploader)
	return profile, nil
}

func (s *profileService) SearchProfiles(ctx context.Context, currentUserID int, input ProfileSearchInput) ([]models.Profile, error) {
	filter := models.ProfileFilter{
		Query:       strings.TrimSpace(input.Query),
		Sport:       strings.TrimSpace(input.Sport),
		Location:    strings.TrimSpace(input.Location),
		ExcludeUser: currentUserID,
	}
	filter.Limit, filter.Offset = normalizePage(input.Limit, input.Offset)

	if t := strings.TrimSpace(input.Type); t != "" {
		profileType := models.ProfileType(strings.ToLower(t))
		if !profileType.Valid() {
			return nil, ErrInvalidProfileType
		}
		filter.Type = &profileType
	}

	profiles, err := s.profileRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	for i := range profiles {
		populateProfileDetails(&profiles[i], s.uploader)
	}
	return profiles, nil
}

func (s *profileService) GetOverview(ctx context.Context, currentUserID, userID int) (*models.ProfileOverview, error) {
	overview := &models.ProfileOverview{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.profileRepo.GetByUserID(gctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrProfileNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to get profile: %w", err)
		}
		populateProfileDetails(profile, s.uploader)
		overview.Profile = profile
		return nil
	})

	g.Go(func() error {
		teams, err := s.teamRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		for i := range teams {
			populateTeamDetails(&teams[i], s.uploader)
		}
		overview.Teams = teams
		return nil
	})

	g.Go(func() error {
		count, err := s.connectionRepo.CountAccepted(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count connections: %w", err)
		}
		overview.ConnectionsCount = count
		return nil
	})

	if currentUserID > 0 && currentUserID != userID {
		g.Go(func() error {
			conn, err := s.connectionRepo.GetBetween(gctx, currentUserID, userID)
			if err != nil && !errors.Is(err, repositories.ErrConnectionNotFound) {
				return fmt.Errorf("failed to get connection status: %w", err)
			}
			overview.ConnectionStatus = connectionStatusFor(conn, currentUserID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if overview.Teams == nil {
		overview.Teams = []models.Team{}
	}
	return overview, nil
}

func (s *profileService) GetSessionStatus(ctx context.Context, userID int) (*models.SessionStatus, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	status := &models.SessionStatus{
		UserID:        user.ID,
		Role:          user.Role,
		MissingFields: []string{},
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			status.Redirect = RedirectOnboarding
			return status, nil
		}
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	}

	status.HasProfile = true
	profileType := profile.ProfileType
	status.ProfileType = &profileType
	status.MissingFields = missingProfileFields(profile)
	status.ProfileComplete = len(status.MissingFields) == 0

	if !status.ProfileComplete {
		status.Redirect = RedirectProfileEdit
		return status, nil
	}
	status.Redirect = landingPath(profile.ProfileType)
	return status, nil
}

func missingProfileFields(p *models.Profile) []string {
	missing := []string{}
	if strings.TrimSpace(p.DisplayName) == "" {
		missing = append(missing, "display_name")
	}
	if !p.ProfileType.Valid() {
		missing = append(missing, "profile_type")
		return missing
	}
	switch p.ProfileType {
	case models.ProfilePlayer, models.ProfileTeam:
		if strings.TrimSpace(derefString(p.Sport)) == "" {
			missing = append(missing, "sport")
		}
	case models.ProfileSponsor, models.ProfileOrganizer:
		if strings.TrimSpace(derefString(p.Organization)) == "" {
			missing = append(missing, "organization")
		}
	}
	return missing
}

func landingPath(t models.ProfileType) string {
	switch t {
	case models.ProfileTeam:
		return RedirectTeamDashboard
	case models.ProfileSponsor:
		return RedirectSponsorDashboard
	case models.ProfileOrganizer:
		return RedirectOrganizerDashboard
	default:
		return RedirectPlayerFeed
	}
}

func (s *profileService) UploadAvatar(ctx context.Context, userID int, file ImageUpload) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	}

	key, err := uploadImage(ctx, s.uploader, storage.FolderAvatars, userID, file)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.UpdateAvatarKey(ctx, userID, &key); err != nil {
		deleteObjectQuietly(ctx, s.logger, s.uploader, &key)
		return nil, fmt.Errorf("failed to save avatar key: %w", err)
	}

	deleteObjectQuietly(ctx, s.logger, s.uploader, profile.AvatarKey)

	profile.AvatarKey = &key
	populateProfileDetails(profile, s.uploader)
	return profile, nil
}
