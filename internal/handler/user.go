package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/service"
	"socialfeed/internal/transport/http/middleware"
)

type UserHandler struct {
	actors   actorResolver
	identity *service.IdentityService
	profile  *service.ProfileService
}

func NewUserHandler(identity *service.IdentityService, profile *service.ProfileService) *UserHandler {
	return &UserHandler{
		actors:   actorResolver{identity: identity},
		identity: identity,
		profile:  profile,
	}
}

// Me handles GET /me
// Returns the stored user behind the caller's token, creating it on first sight.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.GetCurrentUser(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	if user == nil {
		httputil.WriteSkipped(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /me/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}
	if actorID == "" {
		httputil.WriteSkipped(w)
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	res, err := h.profile.UpdateProfile(r.Context(), actorID, req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	if res.Skipped {
		httputil.WriteSkipped(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res.User)
}

// GetProfile handles GET /profiles/{username}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profile.GetProfileByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetProfilePosts handles GET /profiles/{username}/posts
func (h *UserHandler) GetProfilePosts(w http.ResponseWriter, r *http.Request) {
	h.listForProfile(w, r, h.profile.GetUserPosts)
}

// GetProfileLikes handles GET /profiles/{username}/likes
func (h *UserHandler) GetProfileLikes(w http.ResponseWriter, r *http.Request) {
	h.listForProfile(w, r, h.profile.GetUserLikedPosts)
}

func (h *UserHandler) listForProfile(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, userID string, limit int) ([]model.FeedPost, error),
) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	profile, err := h.profile.GetProfileByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	posts, err := list(r.Context(), profile.ID, limit)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// Suggestions handles GET /users/suggestions
func (h *UserHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}

	users, err := h.profile.GetSuggestedUsers(r.Context(), actorID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
