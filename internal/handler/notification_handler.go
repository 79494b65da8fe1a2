package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gradus/internal/domain"
	"gradus/internal/notify"
	"gradus/internal/service"
)

// streamHeartbeat is how often an idle SSE stream emits a comment line
// so intermediaries do not close the connection.
const streamHeartbeat = 15 * time.Second

// NotificationHandler handles notification endpoints, including the
// live SSE stream.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	notifications, total, err := h.notificationService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, notifications, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Badges handles GET /api/v1/notifications/badges
func (h *NotificationHandler) Badges(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	badges, err := h.notificationService.Badges(c.Request.Context(), userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, badges)
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid notification ID")
		return
	}

	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "notification marked read"})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "all notifications marked read"})
}

// streamBadges is the payload of a badges frame on the SSE stream. On
// top of the counts it carries which segments gained or lost their
// badge since the previous frame, so clients update dots without
// diffing counts themselves.
type streamBadges struct {
	notify.BadgeCounts
	Cleared []string `json:"cleared,omitempty"`
	Set     []string `json:"set,omitempty"`
}

// Stream handles GET /api/v1/notifications/stream
//
// The response is a server-sent event stream. Each bus event for the
// user is forwarded as a "notification" frame followed by a "badges"
// frame with recomputed unread counts. The connection stays open until
// the client disconnects.
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	events, unsubscribe, err := h.notificationService.Subscribe(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "response writer does not support streaming")
		return
	}

	ctx := c.Request.Context()

	// Seed the client with current badge state before any live events.
	prev := map[string]bool{}
	if frame, next, err := h.badgesFrame(c, userID, role, prev); err == nil {
		writeSSE(c, "badges", frame)
		flusher.Flush()
		prev = next
	} else {
		log.Printf("notification.Stream: initial badges for %s: %v", userID, err)
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			fmt.Fprintf(c.Writer, "event: notification\ndata: %s\n\n", event.Payload)

			frame, next, err := h.badgesFrame(c, userID, role, prev)
			if err != nil {
				log.Printf("notification.Stream: badges for %s: %v", userID, err)
				flusher.Flush()
				continue
			}
			prev = next
			writeSSE(c, "badges", frame)
			flusher.Flush()
		}
	}
}

func (h *NotificationHandler) badgesFrame(c *gin.Context, userID uuid.UUID, role domain.UserRole, prev map[string]bool) (streamBadges, map[string]bool, error) {
	badges, err := h.notificationService.Badges(c.Request.Context(), userID, role)
	if err != nil {
		return streamBadges{}, nil, err
	}

	next, cleared, set := notify.Reconcile(prev, badges.Counts)
	return streamBadges{BadgeCounts: badges, Cleared: cleared, Set: set}, next, nil
}

func writeSSE(c *gin.Context, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notification.Stream: marshal %s frame: %v", event, err)
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
}
