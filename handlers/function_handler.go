package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Dosada05/sportshive/services"
)

// FunctionHandler обслуживает бессерверные функции: прокси чата и очистку БД.
type FunctionHandler struct {
	chatService    services.ChatService
	cleanupService services.CleanupService
	cleanupToken   string
}

func NewFunctionHandler(chat services.ChatService, cleanup services.CleanupService, cleanupToken string) *FunctionHandler {
	return &FunctionHandler{
		chatService:    chat,
		cleanupService: cleanup,
		cleanupToken:   cleanupToken,
	}
}

// Chat godoc
// @Summary Прокси к чат-модели
// @Tags functions
// @Accept json
// @Produce json
// @Param body body services.ChatInput true "messages, tournament_context, tournament_id"
// @Success 200 {object} models.ChatReply
// @Failure 400 {object} map[string]string "Некорректные сообщения"
// @Failure 500 {object} map[string]string "Ошибка upstream или чат не настроен"
// @Router /functions/chat [post]
func (h *FunctionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var input services.ChatInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reply, err := h.chatService.Reply(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, reply, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Cleanup godoc
// @Summary Очистка устаревших записей
// @Tags functions
// @Produce json
// @Success 200 {object} map[string]interface{} "deleted_count"
// @Failure 401 {object} map[string]string "Неверный токен"
// @Failure 500 {object} map[string]string "Процедура завершилась ошибкой"
// @Router /functions/cleanup [post]
func (h *FunctionHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if h.cleanupToken != "" && !h.validCleanupToken(r) {
		unauthorizedResponse(w, r, "invalid cleanup token")
		return
	}

	deleted, err := h.cleanupService.Run(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted_count": deleted}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Preflight отвечает на OPTIONS; CORS-заголовки выставляет middleware.
func (h *FunctionHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *FunctionHandler) validCleanupToken(r *http.Request) bool {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(h.cleanupToken)) == 1
}
