package handler

import (
	"net/http"
	"strconv"

	"socialfeed/internal/httputil"
	"socialfeed/internal/service"
	"socialfeed/internal/transport/http/middleware"
)

// actorResolver turns the request principal into a user id. An anonymous
// request resolves to "" without error.
type actorResolver struct {
	identity *service.IdentityService
}

func (a actorResolver) actorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := a.identity.CurrentActorID(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return "", false
	}
	return id, true
}

// parseLimit reads the optional limit query parameter. Zero means "use the default".
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	l := r.URL.Query().Get("limit")
	if l == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(l)
	if err != nil || parsed <= 0 {
		httputil.WriteBadRequest(w, "Invalid limit parameter")
		return 0, false
	}
	return parsed, true
}
