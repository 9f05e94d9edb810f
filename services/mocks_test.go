package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) NotifyCountsChanged(ctx context.Context, userIDs ...int) {
	m.Called(userIDs)
}

type broadcasterMock struct {
	mock.Mock
}

func (m *broadcasterMock) HasUser(userID int) bool {
	return m.Called(userID).Bool(0)
}

func (m *broadcasterMock) SendToUser(userID int, messageType string, payload interface{}) {
	m.Called(userID, messageType, payload)
}

type completerMock struct {
	mock.Mock
}

func (m *completerMock) Complete(ctx context.Context, messages []models.ChatMessage) (*models.ChatReply, error) {
	args := m.Called(ctx, messages)
	reply, _ := args.Get(0).(*models.ChatReply)
	return reply, args.Error(1)
}

type uploaderMock struct {
	mock.Mock
}

func (m *uploaderMock) Upload(ctx context.Context, key string, contentType string, reader io.Reader, size int64) (*storage.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil || int64(len(data)) != size {
		return nil, fmt.Errorf("uploader mock: read %d bytes, declared %d (err %v)", len(data), size, err)
	}
	args := m.Called(ctx, key, contentType, size)
	res, _ := args.Get(0).(*storage.UploadResult)
	return res, args.Error(1)
}

func (m *uploaderMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *uploaderMock) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}
