package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
)

type authService interface {
	Login(ctx context.Context, params application.LoginParams) (application.LoginResult, error)
	Register(ctx context.Context, params application.RegisterParams) (application.User, error)
	Logout(ctx context.Context, principal application.Principal)
	Terminate(ctx context.Context, principal application.Principal, userID int64) error
}

// AuthHandler serves login, logout, and registration.
type AuthHandler struct {
	service   authService
	limiter   *LoginLimiter
	responder responder
	logger    *slog.Logger
}

// NewAuthHandler wires the auth endpoints. The limiter may be nil to disable
// login throttling.
func NewAuthHandler(service authService, limiter *LoginLimiter, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, limiter: limiter, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Login authenticates the submitted credentials and claims the single
// session slot. A live session yields 409 with the minutes remaining unless
// the force flag requests a takeover.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	name := strings.TrimSpace(req.Name)
	logger := h.log(r.Context(), "Login", "name", name, "force", req.Force)

	if !h.limiter.Allow(name) {
		logger.WarnContext(r.Context(), "login throttled")
		h.responder.writeJSON(r.Context(), w, http.StatusTooManyRequests, errorResponse{
			Message: "too many login attempts, try again later",
		})
		return
	}

	result, err := h.service.Login(r.Context(), application.LoginParams{
		Name:     name,
		Password: req.Password,
		Force:    req.Force,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	setSessionCookies(w, result.User.Name, result.Token)
	w.Header().Set("X-Session-Token", result.Token)

	logger.With("user_id", result.User.ID).InfoContext(r.Context(), "user logged in")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, loginResponse{
		Token: result.Token,
		User:  toUserDTO(result.User),
	})
}

// Logout drops the caller's session and clears the cookies. Safe to repeat.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	h.service.Logout(r.Context(), principal)
	clearSessionCookies(w)

	h.log(r.Context(), "Logout", "user_id", principal.UserID).InfoContext(r.Context(), "user logged out")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Register creates an account from the public registration form.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Register", "name", req.Name)

	// Public registration always yields a normal account.
	user, err := h.service.Register(r.Context(), application.RegisterParams{
		Name:     req.Name,
		Password: req.Password,
		Role:     application.RoleNormal,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "user registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, userResponse{User: toUserDTO(user)})
}

// TerminateSession lets an administrator drop another user's session.
func (h *AuthHandler) TerminateSession(w http.ResponseWriter, r *http.Request) {
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
	logger := h.log(r.Context(), "TerminateSession", "actor_id", principal.UserID, "target_id", userID)

	if err := h.service.Terminate(r.Context(), principal, userID); err != nil {
		logger.ErrorContext(r.Context(), "session termination failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "session terminated by administrator")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Force    bool   `json:"force"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

const (
	sessionUserCookie  = "session_user"
	sessionTokenCookie = "session_token"
)

func setSessionCookies(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionUserCookie,
		Value:    name,
		HttpOnly: true,
		Path:     "/",
	})
	http.SetCookie(w, &http.Cookie{
		Name:     sessionTokenCookie,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
}

func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{sessionUserCookie, sessionTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}

// extractSessionFromRequest pulls the session identity from the Authorization
// header (with X-Session-User naming the account) or from the cookie pair.
func extractSessionFromRequest(r *http.Request) (name, token string) {
	if r == nil {
		return "", ""
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			token = strings.TrimSpace(strings.TrimPrefix(header, prefix))
			name = strings.TrimSpace(r.Header.Get("X-Session-User"))
			if name != "" && token != "" {
				return name, token
			}
		}
	}
	name, token = "", ""
	if cookie, err := r.Cookie(sessionUserCookie); err == nil {
		name = cookie.Value
	}
	if cookie, err := r.Cookie(sessionTokenCookie); err == nil {
		token = cookie.Value
	}
	return name, token
}
