package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialfeed/internal/httputil"
	"socialfeed/internal/service"
)

type FollowHandler struct {
	actors  actorResolver
	toggle  *service.ToggleService
	profile *service.ProfileService
}

func NewFollowHandler(identity *service.IdentityService, toggle *service.ToggleService, profile *service.ProfileService) *FollowHandler {
	return &FollowHandler{
		actors:  actorResolver{identity: identity},
		toggle:  toggle,
		profile: profile,
	}
}

// Toggle handles POST /users/{id}/follow
// Follows the user if not followed yet, otherwise unfollows.
func (h *FollowHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}

	res, err := h.toggle.ToggleFollow(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// IsFollowing handles GET /users/{id}/following
func (h *FollowHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}

	following, err := h.profile.IsFollowing(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"following": following})
}
