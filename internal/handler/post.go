package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/service"
)

type PostHandler struct {
	actors      actorResolver
	interaction *service.InteractionService
	toggle      *service.ToggleService
}

func NewPostHandler(identity *service.IdentityService, interaction *service.InteractionService, toggle *service.ToggleService) *PostHandler {
	return &PostHandler{
		actors:      actorResolver{identity: identity},
		interaction: interaction,
		toggle:      toggle,
	}
}

// Create handles POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}
	if actorID == "" {
		httputil.WriteSkipped(w)
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	res, err := h.interaction.CreatePost(r.Context(), actorID, req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	if res.Skipped {
		httputil.WriteSkipped(w)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, res.Post)
}

// Delete handles DELETE /posts/{id}
// Only the author can delete a post.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}

	res, err := h.interaction.DeletePost(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// ToggleLike handles POST /posts/{id}/like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}

	res, err := h.toggle.ToggleLike(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}
