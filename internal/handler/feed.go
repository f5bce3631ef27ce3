package handler

import (
	"net/http"

	"socialfeed/internal/httputil"
	"socialfeed/internal/service"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetPosts handles GET /posts
// Returns the home listing, newest first.
//
// Query params:
//   - limit: optional, number of posts (default 20, max 100)
func (h *FeedHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	posts, err := h.feedService.GetPosts(r.Context(), limit)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}
