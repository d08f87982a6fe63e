package handlers

import (
	"net/http"
	"time"

	"internhub/internal/common"
	"internhub/internal/domain/user"
	"internhub/internal/http/middleware"
	"internhub/internal/http/response"
	"internhub/internal/security"
	"internhub/internal/store"
)

type AuthHandler struct {
	identity *store.IdentityStore
	jwt      *security.JWTProvider
	limiter  middleware.Limiter
	tokenTTL time.Duration
}

func NewAuthHandler(identity *store.IdentityStore, jwt *security.JWTProvider, limiter middleware.Limiter, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{identity: identity, jwt: jwt, limiter: limiter, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Avatar     string   `json:"avatar,omitempty"`
	Department string   `json:"department,omitempty"`
	Company    string   `json:"company,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience int      `json:"experience,omitempty"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      userResponse `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(w, common.NewValidationError("invalid login", map[string]string{"email": "email and password are required"}))
		return
	}
	if h.limiter != nil && !h.limiter.Allow("login:"+middleware.ClientIP(r), 10, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "login rate limit exceeded", nil))
		return
	}
	account, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, account)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Password == "" {
		response.Error(w, common.NewValidationError("invalid registration", map[string]string{"password": "password is required"}))
		return
	}
	created, err := h.identity.Register(r.Context(), store.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Role:       user.Role(req.Role),
		Avatar:     req.Avatar,
		Department: req.Department,
		Company:    req.Company,
		Bio:        req.Bio,
		Skills:     req.Skills,
		Experience: req.Experience,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	h.respondWithToken(w, http.StatusCreated, created)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context()); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, account *user.User) {
	token, expiresAt, err := h.jwt.Generate(account.ID, account.Role, h.tokenTTL)
	if err != nil {
		response.Error(w, common.NewError(common.CodeInternal, "issue token", err))
		return
	}
	response.JSON(w, status, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      toUserResponse(*account),
	})
}
