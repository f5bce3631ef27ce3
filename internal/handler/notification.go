package handler

import (
	"encoding/json"
	"net/http"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/service"
)

type NotificationHandler struct {
	actors       actorResolver
	notifService *service.NotificationService
}

func NewNotificationHandler(identity *service.IdentityService, notifService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		actors:       actorResolver{identity: identity},
		notifService: notifService,
	}
}

// List handles GET /notifications
// Returns the caller's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}

	notifications, err := h.notifService.ListNotifications(r.Context(), actorID, limit)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkRead handles POST /notifications/read
// Body: {"notification_ids": ["...", "..."]}
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}
	if actorID == "" {
		httputil.WriteSkipped(w)
		return
	}

	var req model.MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	res, err := h.notifService.MarkRead(r.Context(), actorID, req.NotificationIDs)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}

	res, err := h.notifService.MarkAllRead(r.Context(), actorID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// UnreadCount handles GET /notifications/unread-count
// Returns the number of unread notifications (for badge display).
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actors.actorID(w, r)
	if !ok {
		return
	}

	count, err := h.notifService.UnreadCount(r.Context(), actorID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}
