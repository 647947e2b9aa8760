// Package notification provides HTTP handlers for in-app notifications.
package notification

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/utilities"
)

// NotificationController handles notification endpoints.
type NotificationController struct {
	DB *database.DBinstanceStruct
}

// NewNotificationController creates a new instance of NotificationController.
func NewNotificationController(db *database.DBinstanceStruct) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications lists the calling user's notifications, newest first.
// @Summary List own notifications
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.APIResponse "Notifications"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /notifications [get]
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	var notifications []model.Notification
	if err := nc.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprint("Failed to fetch notifications: ", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, notifications)
}

// MarkRead marks one of the calling user's notifications as read.
// @Summary Mark own notification as read
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired notification"
// @Success 200 {object} utilities.APIResponse "Updated notification"
// @Failure 404 {object} utilities.APIResponse "Notification not found"
// @Failure 500 {object} utilities.APIResponse "Database error"
// @Router /notifications/{id}/read [put]
func (nc *NotificationController) MarkRead(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		utilities.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	id := c.Param("id")

	var notification model.Notification
	if err := nc.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Fail(c, http.StatusNotFound, "Notification not found")
			return
		}
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve notification: %s", err.Error()))
		return
	}

	if err := nc.DB.Model(&notification).Update("read", true).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError,
			fmt.Sprintf("Failed to update notification: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, notification)
}
