package handlers

import (
	"net/http"

	"github.com/Dosada05/sportshive/middleware"
	"github.com/Dosada05/sportshive/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(ps services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: ps}
}

func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpsertMyProfile godoc
// @Summary Создать или обновить свой профиль
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body services.ProfileInput true "Данные профиля"
// @Success 200 {object} map[string]interface{} "Профиль сохранён"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 409 {object} map[string]string "Username занят"
// @Security BearerAuth
// @Router /api/v1/me/profile [put]
func (h *ProfileHandler) UpsertMyProfile(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.ProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.UpsertProfile(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProfileHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	overview, err := h.profileService.GetOverview(r.Context(), currentUserID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"overview": overview}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SearchProfiles godoc
// @Summary Поиск профилей
// @Tags profiles
// @Produce json
// @Param q query string false "Имя или username"
// @Param type query string false "player, team, sponsor, organizer"
// @Param sport query string false "Вид спорта"
// @Param location query string false "Локация"
// @Param limit query int false "По умолчанию 20, максимум 100"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]interface{} "Список профилей"
// @Security BearerAuth
// @Router /api/v1/profiles [get]
func (h *ProfileHandler) SearchProfiles(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	limit, offset, err := pagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	q := r.URL.Query()
	profiles, err := h.profileService.SearchProfiles(r.Context(), currentUserID, services.ProfileSearchInput{
		Query:    q.Get("q"),
		Type:     q.Get("type"),
		Sport:    q.Get("sport"),
		Location: q.Get("location"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profiles": profiles}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProfileHandler) GetSessionStatus(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	status, err := h.profileService.GetSessionStatus(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, status, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	upload, file, err := readImage(w, r, "avatar")
	if err != nil {
		imageReadErrorResponse(w, r, err)
		return
	}
	defer file.Close()

	profile, err := h.profileService.UploadAvatar(r.Context(), currentUserID, upload)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
