package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	perrors "github.com/grocerydesk/catalog/internal/errors"
	"github.com/grocerydesk/catalog/pkg/web"
)

type CredentialsRequest struct {
	Login    string `json:"login"    validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "auth-handler"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	user, err := h.service.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, perrors.ErrLoginTaken):
			web.RespondError(w, h.logger, http.StatusConflict, "login is already taken")
			return
		case errors.Is(err, perrors.ErrPasswordTooLong):
			web.RespondError(w, h.logger, http.StatusBadRequest, perrors.ErrPasswordTooLong.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Error registering user", "error", err)
		web.RespondStatus(w, h.logger, http.StatusInternalServerError)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, UserResponse{ID: user.ID.String(), Login: user.Login})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	token, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, perrors.ErrInvalidCredentials) {
			web.RespondError(w, h.logger, http.StatusUnauthorized, "invalid login or password")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error logging in", "error", err)
		web.RespondStatus(w, h.logger, http.StatusInternalServerError)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, TokenResponse{Token: token})
}

func (h *Handler) decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
			return req, false
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			if fe.Tag() == "required" {
				messages = append(messages, credentialField(fe.Field())+" must not be empty")
			} else {
				messages = append(messages, credentialField(fe.Field())+" is too long")
			}
		}
		web.RespondErrors(w, h.logger, http.StatusBadRequest, messages)
		return req, false
	}
	return req, true
}

func credentialField(structField string) string {
	if structField == "Login" {
		return "login"
	}
	return "password"
}
