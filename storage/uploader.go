package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

// Folder задаёт верхний уровень ключа объекта в бакете.
type Folder string

const (
	FolderAvatars     Folder = "avatars"
	FolderTeams       Folder = "teams"
	FolderTournaments Folder = "tournaments"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader хранит аватары и логотипы. Nil-значение означает, что хранилище отключено.
type FileUploader interface {
	// Upload отправляет size байт из reader; size уходит в Content-Length.
	Upload(ctx context.Context, key string, contentType string, reader io.Reader, size int64) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ObjectKey строит уникальный ключ вида <folder>/<ownerID>/<uuid><ext>.
func ObjectKey(folder Folder, ownerID int, ext string) string {
	return path.Join(string(folder), fmt.Sprint(ownerID), uuid.NewString()+ext)
}
