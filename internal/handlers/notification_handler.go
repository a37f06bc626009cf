package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/luffy229/blog-omnify/internal/models"
	"github.com/luffy229/blog-omnify/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles the notification feed
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	blogRepository         repositories.BlogRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, blogRepo repositories.BlogRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		blogRepository:         blogRepo,
	}
}

// RegisterNotificationRoutes registers notification routes, all behind auth
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.PUT("/notifications", h.MarkAllAsRead)
	g.GET("/notifications/unread", h.GetUnreadCount)
	g.PUT("/notifications/:id", h.MarkAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// EnrichedNotification carries the sender name and blog title alongside the
// stored notification
type EnrichedNotification struct {
	models.Notification
	SenderName string `json:"senderName,omitempty"`
	BlogTitle  string `json:"blogTitle,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	nameCache := make(map[primitive.ObjectID]string)
	titleCache := make(map[primitive.ObjectID]string)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}

		if name, ok := nameCache[n.Sender]; ok {
			enriched[i].SenderName = name
		} else if sender, err := h.userRepository.GetUserByID(c.Request().Context(), n.Sender.Hex()); err == nil {
			nameCache[n.Sender] = sender.Name
			enriched[i].SenderName = sender.Name
		}

		if title, ok := titleCache[n.Blog]; ok {
			enriched[i].BlogTitle = title
		} else if blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), n.Blog.Hex()); err == nil {
			titleCache[n.Blog] = blog.Title
			enriched[i].BlogTitle = blog.Title
		}
	}
	return enriched
}

// GetNotifications returns the caller's notifications newest-first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	notifications, err := h.notificationRepository.GetByRecipient(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichNotifications(c, notifications))
}

// GetUnreadCount returns the caller's unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead flags one notification as read. Recipient only.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	notification, err := h.notificationRepository.GetNotificationByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if notification.Recipient != userID {
		return echo.NewHTTPError(http.StatusForbidden, "User not authorized")
	}

	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), notification.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notification.IsRead = true
	return c.JSON(http.StatusOK, notification)
}

// MarkAllAsRead flags every unread notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// DeleteNotification removes one notification. Recipient only.
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	notification, err := h.notificationRepository.GetNotificationByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if notification.Recipient != userID {
		return echo.NewHTTPError(http.StatusForbidden, "User not authorized")
	}

	if err := h.notificationRepository.DeleteNotification(c.Request().Context(), notification.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification removed"})
}
