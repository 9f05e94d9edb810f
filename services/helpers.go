package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/storage"
)

// MaxImageSize ограничивает размер аватаров и логотипов.
const MaxImageSize int64 = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageUpload описывает файл, пришедший из multipart-формы.
type ImageUpload struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// trimmedPtr обрезает пробелы и превращает пустую строку в nil.
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func stringPtr(s string) *string {
	return &s
}

func locationOrUnknown(location *string) *string {
	if location == nil || strings.TrimSpace(*location) == "" {
		return stringPtr(models.UnknownLocation)
	}
	return location
}

func publicURL(uploader storage.FileUploader, key *string) *string {
	if uploader == nil || key == nil || *key == "" {
		return nil
	}
	url := uploader.GetPublicURL(*key)
	if url == "" {
		return nil
	}
	return &url
}

func populateProfileDetails(profile *models.Profile, uploader storage.FileUploader) {
	if profile == nil {
		return
	}
	profile.Location = locationOrUnknown(profile.Location)
	profile.AvatarURL = publicURL(uploader, profile.AvatarKey)
}

func populateTeamDetails(team *models.Team, uploader storage.FileUploader) {
	if team == nil {
		return
	}
	team.LogoURL = publicURL(uploader, team.LogoKey)
	for i := range team.Members {
		populateProfileDetails(team.Members[i].Profile, uploader)
	}
}

func populateTournamentDetails(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament == nil {
		return
	}
	tournament.Location = locationOrUnknown(tournament.Location)
	tournament.LogoURL = publicURL(uploader, tournament.LogoKey)
}

// uploadImage проверяет тип и размер файла и кладёт его в хранилище.
func uploadImage(ctx context.Context, uploader storage.FileUploader, folder storage.Folder, ownerID int, file ImageUpload) (string, error) {
	if uploader == nil {
		return "", ErrStorageUnavailable
	}
	ext, ok := allowedImageTypes[strings.ToLower(file.ContentType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, file.ContentType)
	}
	if file.Size > MaxImageSize {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, MaxImageSize)
	}

	// Заголовок Size от клиента не гарантирует реальный размер, поэтому файл читается целиком.
	data, err := io.ReadAll(io.LimitReader(file.Reader, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s image: %w", folder, err)
	}
	if int64(len(data)) > MaxImageSize {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, MaxImageSize)
	}

	key := storage.ObjectKey(folder, ownerID, ext)
	if _, err := uploader.Upload(ctx, key, file.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("failed to upload %s image: %w", folder, err)
	}
	return key, nil
}

// deleteObjectQuietly удаляет старый файл; ошибка только логируется.
func deleteObjectQuietly(ctx context.Context, logger *slog.Logger, uploader storage.FileUploader, key *string) {
	if uploader == nil || key == nil || *key == "" {
		return
	}
	if err := uploader.Delete(ctx, *key); err != nil {
		logger.WarnContext(ctx, "failed to delete previous object", slog.String("key", *key), slog.Any("error", err))
	}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// connectionStatusFor возвращает статус связи с точки зрения userID.
func connectionStatusFor(conn *models.Connection, userID int) models.ConnectionStatus {
	if conn == nil {
		return models.ConnectionStatusNone
	}
	switch conn.Status {
	case models.ConnectionAccepted:
		return models.ConnectionStatusConnected
	case models.ConnectionPending:
		if conn.RequesterID == userID {
			return models.ConnectionStatusPendingSent
		}
		return models.ConnectionStatusPendingReceived
	default:
		return models.ConnectionStatusNone
	}
}
