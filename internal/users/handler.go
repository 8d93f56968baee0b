package users

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"notesapp/internal/auth"
	"notesapp/internal/respond"
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// CreateAccount handles POST /create-account
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var input CreateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Message(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	user, token, err := h.svc.CreateAccount(r.Context(), input)
	if err != nil {
		respond.Error(w, r, h.log, "create account", err)
		return
	}

	h.log.InfoContext(r.Context(), "account created", "user_id", user.ID.Hex())
	respond.JSON(w, map[string]any{
		"user":        user,
		"accessToken": token,
		"msg":         "User Registered Successfully",
	}, http.StatusOK)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Message(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	user, token, err := h.svc.Login(r.Context(), input)
	if err != nil {
		respond.Error(w, r, h.log, "login", err)
		return
	}

	respond.JSON(w, map[string]any{
		"email":       user.Email,
		"accessToken": token,
		"msg":         "Login Successful",
	}, http.StatusOK)
}

// GetUser handles GET /get-user
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, h.log, "get user", err)
		return
	}

	respond.JSON(w, map[string]any{"user": user}, http.StatusOK)
}
