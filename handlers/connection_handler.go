package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/sportshive/middleware"
	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/services"
)

type ConnectionHandler struct {
	connectionService services.ConnectionService
}

func NewConnectionHandler(cs services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: cs}
}

// SendRequest godoc
// @Summary Отправить запрос на связь
// @Tags connections
// @Accept json
// @Produce json
// @Param body body services.SendConnectionInput true "user_id"
// @Success 201 {object} map[string]interface{} "Запрос отправлен"
// @Failure 400 {object} map[string]string "Запрос самому себе"
// @Failure 404 {object} map[string]string "Пользователь не найден"
// @Failure 409 {object} map[string]string "Связь уже существует"
// @Security BearerAuth
// @Router /api/v1/connections [post]
func (h *ConnectionHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.SendConnectionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := h.connectionService.SendRequest(r.Context(), currentUserID, input.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"connection": conn}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ConnectionHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.connectionService.AcceptRequest)
}

func (h *ConnectionHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.connectionService.DeclineRequest)
}

func (h *ConnectionHandler) respond(w http.ResponseWriter, r *http.Request, fn func(context.Context, int, int) (*models.Connection, error)) {
	connectionID, err := getIDFromURL(r, "connectionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	conn, err := fn(r.Context(), connectionID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"connection": conn}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ConnectionHandler) RemoveConnection(w http.ResponseWriter, r *http.Request) {
	connectionID, err := getIDFromURL(r, "connectionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.connectionService.RemoveConnection(r.Context(), connectionID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.connectionService.ListConnections)
}

func (h *ConnectionHandler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.connectionService.ListPendingRequests)
}

func (h *ConnectionHandler) ListSentRequests(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.connectionService.ListSentRequests)
}

func (h *ConnectionHandler) list(w http.ResponseWriter, r *http.Request, fn func(context.Context, int) ([]models.Connection, error)) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	conns, err := fn(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"connections": conns}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ConnectionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	otherUserID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	status, err := h.connectionService.GetStatus(r.Context(), currentUserID, otherUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": status}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
