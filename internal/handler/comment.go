package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/service"
)

type CommentHandler struct {
	actors      actorResolver
	interaction *service.InteractionService
}

func NewCommentHandler(identity *service.IdentityService, interaction *service.InteractionService) *CommentHandler {
	return &CommentHandler{
		actors:      actorResolver{identity: identity},
		interaction: interaction,
	}
}

// Create handles POST /posts/{id}/comments
// The author of the post is notified unless they wrote the comment.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}
	if actorID == "" {
		httputil.WriteSkipped(w)
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	res, err := h.interaction.CreateComment(r.Context(), actorID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	if res.Skipped {
		httputil.WriteSkipped(w)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, res.Comment)
}
