package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/sportshive/middleware"
	"github.com/Dosada05/sportshive/realtime"
	"github.com/Dosada05/sportshive/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
	hub                 *realtime.Hub
	upgrader            websocket.Upgrader
	logger              *slog.Logger
}

// NewNotificationHandler принимает список разрешённых Origin для websocket;
// "*" или пустой список разрешают любые.
func NewNotificationHandler(ns services.NotificationService, hub *realtime.Hub, allowedOrigins []string, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: ns,
		hub:                 hub,
		logger:              logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// GetCounts godoc
// @Summary Счётчики уведомлений
// @Tags notifications
// @Produce json
// @Success 200 {object} models.NotificationCounts
// @Security BearerAuth
// @Router /api/v1/notifications/counts [get]
func (h *NotificationHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	counts, err := h.notificationService.GetCounts(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, counts, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ServeWs подключает пользователя к его персональной комнате хаба.
// Клиент подключается к /ws/notifications?token=<jwt>.
func (h *NotificationHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту.
		h.logger.Warn("failed to upgrade websocket connection", slog.Int("user_id", currentUserID), slog.Any("error", err))
		return
	}

	client := h.hub.NewClient(conn, currentUserID)
	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	// Текущее состояние сразу после подключения.
	h.notificationService.NotifyCountsChanged(r.Context(), currentUserID)
}
