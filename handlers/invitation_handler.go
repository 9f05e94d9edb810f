package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/sportshive/middleware"
	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/services"
)

type InvitationHandler struct {
	invitationService services.InvitationService
}

func NewInvitationHandler(is services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: is}
}

// InviteUser godoc
// @Summary Пригласить игрока в команду
// @Tags invitations
// @Accept json
// @Produce json
// @Param teamID path int true "Team ID"
// @Param body body services.InviteInput true "user_id, message"
// @Success 201 {object} map[string]interface{} "Приглашение создано"
// @Failure 403 {object} map[string]string "Только капитан"
// @Failure 409 {object} map[string]string "Уже участник или есть активное приглашение"
// @Security BearerAuth
// @Router /api/v1/teams/{teamID}/invitations [post]
func (h *InvitationHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.InviteInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.UserID <= 0 {
		badRequestResponse(w, r, errors.New("user_id is required"))
		return
	}

	inv, err := h.invitationService.InviteUser(r.Context(), teamID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"invitation": inv}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InvitationHandler) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	// Тело необязательно: заявка может быть без сообщения.
	var input services.JoinRequestInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	inv, err := h.invitationService.RequestToJoin(r.Context(), teamID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"invitation": inv}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InvitationHandler) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	invs, err := h.invitationService.ListUserInvitations(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invitations": invs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InvitationHandler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	invs, err := h.invitationService.ListJoinRequests(r.Context(), teamID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"join_requests": invs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InvitationHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.invitationService.AcceptInvitation)
}

func (h *InvitationHandler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.invitationService.DeclineInvitation)
}

func (h *InvitationHandler) respond(w http.ResponseWriter, r *http.Request, fn func(context.Context, int, int) (*models.Invitation, error)) {
	invitationID, err := getIDFromURL(r, "invitationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	inv, err := fn(r.Context(), invitationID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invitation": inv}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InvitationHandler) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID, err := getIDFromURL(r, "invitationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.invitationService.CancelInvitation(r.Context(), invitationID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
