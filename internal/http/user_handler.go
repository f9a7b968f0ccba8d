package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
)

type userService interface {
	List(ctx context.Context, principal application.Principal) ([]application.User, error)
	Get(ctx context.Context, principal application.Principal, userID int64) (application.User, error)
	Create(ctx context.Context, principal application.Principal, params application.RegisterParams) (application.User, error)
	Rename(ctx context.Context, principal application.Principal, userID int64, newName string) (application.User, error)
	Delete(ctx context.Context, principal application.Principal, userID int64) error
}

// UserHandler serves account administration.
type UserHandler struct {
	service   userService
	responder responder
	logger    *slog.Logger
}

// NewUserHandler wires the user endpoints.
func NewUserHandler(service userService, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	users, err := h.service.List(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List", "principal_id", principal.UserID).ErrorContext(r.Context(), "user listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]userDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, toUserDTO(user))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userListResponse{Users: dtos})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode user request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	user, err := h.service.Create(r.Context(), principal, application.RegisterParams{
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "user creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "user created by administrator")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, userResponse{User: toUserDTO(user)})
}

// Rename changes an account name; the live session follows the account.
func (h *UserHandler) Rename(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req renameUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Rename", "user_id", userID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode rename request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Rename", "principal_id", principal.UserID, "user_id", userID)

	user, err := h.service.Rename(r.Context(), principal, userID, req.Name)
	if err != nil {
		logger.ErrorContext(r.Context(), "user rename failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	// The caller renamed their own account; refresh the cookie so the
	// session identity matches.
	if principal.UserID == user.ID {
		setSessionCookieName(w, user.Name)
	}

	logger.InfoContext(r.Context(), "user renamed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserDTO(user)})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "user_id", userID)

	if err := h.service.Delete(r.Context(), principal, userID); err != nil {
		logger.ErrorContext(r.Context(), "user deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "user deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func setSessionCookieName(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionUserCookie,
		Value:    name,
		HttpOnly: true,
		Path:     "/",
	})
}

type createUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     int    `json:"role"`
}

type renameUserRequest struct {
	Name string `json:"name"`
}

type userDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Role    int    `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

func toUserDTO(user application.User) userDTO {
	return userDTO{
		ID:      user.ID,
		Name:    user.Name,
		Role:    user.Role,
		IsAdmin: user.IsAdmin(),
	}
}

type userResponse struct {
	User userDTO `json:"user"`
}

type userListResponse struct {
	Users []userDTO `json:"users"`
}
