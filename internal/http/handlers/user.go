package handlers

import (
	"net/http"

	"internhub/internal/common"
	"internhub/internal/domain/user"
	"internhub/internal/http/middleware"
	"internhub/internal/http/response"
	"internhub/internal/store"
)

type UserHandler struct {
	identity *store.IdentityStore
}

func NewUserHandler(identity *store.IdentityStore) *UserHandler {
	return &UserHandler{identity: identity}
}

// userResponse mirrors the wire shape of the remote backend: snake_case
// fields over the same entity.
type userResponse struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Avatar     string   `json:"avatar,omitempty"`
	Department string   `json:"department,omitempty"`
	Company    string   `json:"company,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience int      `json:"experience,omitempty"`
}

func toUserResponse(account user.User) userResponse {
	return userResponse{
		ID:         account.ID.String(),
		Email:      account.Email,
		Name:       account.Name,
		Role:       string(account.Role),
		Avatar:     account.Avatar,
		Department: account.Department,
		Company:    account.Company,
		Bio:        account.Bio,
		Skills:     account.Skills,
		Experience: account.Experience,
	}
}

type updateUserRequest struct {
	Email      *string  `json:"email"`
	Name       *string  `json:"name"`
	Avatar     *string  `json:"avatar"`
	Department *string  `json:"department"`
	Company    *string  `json:"company"`
	Bio        *string  `json:"bio"`
	Skills     []string `json:"skills"`
	Experience *int     `json:"experience"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts := h.identity.Users()
	result := make([]userResponse, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, toUserResponse(account))
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	account, err := h.identity.UserByID(userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toUserResponse(*account))
}

// Update applies a profile patch. Users may edit themselves; admins may edit
// anyone. Role is immutable and absent from the request shape.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	userID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	if actorID != userID && role != user.RoleAdmin {
		response.Error(w, common.NewError(common.CodeForbidden, "cannot edit another user's profile", nil))
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	err = h.identity.UpdateProfile(r.Context(), userID, store.ProfileUpdate{
		Email:      req.Email,
		Name:       req.Name,
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
	account, err := h.identity.UserByID(userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toUserResponse(*account))
}
