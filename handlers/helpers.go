package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/sportshive/services"
)

type jsonResponse map[string]interface{}

const maxUploadMemory = 32 << 20

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "the requested resource could not be found"
	}
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTeamMemberNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrConnectionNotFound):
		notFoundResponse(w, r, err.Error())

	// Конфликты
	case errors.Is(err, services.ErrUserEmailConflict),
		errors.Is(err, services.ErrUsernameConflict),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrAlreadyTeamMember),
		errors.Is(err, services.ErrInvitationConflict),
		errors.Is(err, services.ErrInvitationNotPending),
		errors.Is(err, services.ErrConnectionExists),
		errors.Is(err, services.ErrConnectionNotPending),
		errors.Is(err, services.ErrRegistrationConflict),
		errors.Is(err, services.ErrTournamentFull):
		conflictResponse(w, r, err.Error())

	// Невалидные данные и бизнес-правила
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidProfileType),
		errors.Is(err, services.ErrDisplayNameRequired),
		errors.Is(err, services.ErrDisplayNameTooLong),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrCannotRemoveCaptain),
		errors.Is(err, services.ErrInvitationExpired),
		errors.Is(err, services.ErrSelfConnection),
		errors.Is(err, services.ErrUnsupportedFileType),
		errors.Is(err, services.ErrRegistrationNotOpen),
		errors.Is(err, services.ErrTournamentNameRequired),
		errors.Is(err, services.ErrTournamentSportRequired),
		errors.Is(err, services.ErrTournamentDatesRequired),
		errors.Is(err, services.ErrTournamentInvalidDates),
		errors.Is(err, services.ErrTournamentInvalidRegDate),
		errors.Is(err, services.ErrTournamentInvalidTeams),
		errors.Is(err, services.ErrTournamentInvalidFormat),
		errors.Is(err, services.ErrTournamentInvalidMoney),
		errors.Is(err, services.ErrTournamentInvalidStatus),
		errors.Is(err, services.ErrTournamentStatusChange),
		errors.Is(err, services.ErrChatMessagesRequired),
		errors.Is(err, services.ErrChatInvalidMessage),
		errors.Is(err, services.ErrBracketNotEnoughTeams),
		errors.Is(err, services.ErrBracketUnsupportedFormat):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrFileTooLarge):
		errorResponse(w, r, http.StatusRequestEntityTooLarge, err.Error())

	// Ошибки авторизации/доступа
	case errors.Is(err, services.ErrAuthenticationFailed),
		errors.Is(err, services.ErrInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrCaptainActionForbidden),
		errors.Is(err, services.ErrOrganizerOnly):
		forbiddenResponse(w, r, err.Error())

	case errors.Is(err, services.ErrStorageUnavailable):
		errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	// Ошибки внешних функций отдаются клиенту с текстом
	case errors.Is(err, services.ErrChatNotConfigured),
		errors.Is(err, services.ErrChatUpstream),
		errors.Is(err, services.ErrCleanupFailed):
		slog.ErrorContext(r.Context(), "function failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		errorResponse(w, r, http.StatusInternalServerError, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

// queryInt читает необязательный числовой параметр запроса.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s query parameter: %q", name, v)
	}
	return n, nil
}

func pagination(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(r, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// maxImageRequestSize оставляет запас на заголовки и поля формы.
const maxImageRequestSize = services.MaxImageSize + 1<<20

// readImage достаёт файл из multipart-формы. Вызывающий закрывает возвращённый closer.
func readImage(w http.ResponseWriter, r *http.Request, field string) (services.ImageUpload, io.Closer, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageRequestSize)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return services.ImageUpload{}, nil, fmt.Errorf("%w: request body must not be larger than %d bytes", services.ErrFileTooLarge, maxBytesError.Limit)
		}
		return services.ImageUpload{}, nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return services.ImageUpload{}, nil, fmt.Errorf("failed to get %s file from form: %w", field, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		file.Close()
		return services.ImageUpload{}, nil, fmt.Errorf("content-type header is required for %s", field)
	}

	return services.ImageUpload{Reader: file, ContentType: contentType, Size: header.Size}, file, nil
}

func imageReadErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrFileTooLarge) {
		errorResponse(w, r, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	badRequestResponse(w, r, err)
}
