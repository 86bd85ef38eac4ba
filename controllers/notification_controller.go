package controllers

import (
	"net/http"
	"strings"

	"conference-review-api/services"

	"github.com/gin-gonic/gin"
)

func notificationService() *services.NotificationService {
	return services.NewNotificationService(reviewDeps)
}

// GET /api/v1/notifications?unreadOnly=true&page=1&per_page=20
func GetNotifications(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))
	onlyUnread := unreadOnly == "1" || strings.EqualFold(unreadOnly, "true")

	result, err := notificationService().List(c.Request.Context(), uid, onlyUnread, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GET /api/v1/notifications/unread-count
func GetNotificationCounter(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	n, err := notificationService().UnreadCount(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unread": n})
}

// PATCH /api/v1/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := notificationService().MarkRead(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PATCH /api/v1/notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	n, err := notificationService().MarkAllRead(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}
