package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// ListNotifications returns the caller's inbox, newest first. Pass
// unread_only=true to hide read entries.
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	query := nc.DB.Where("user_id = ?", currentUserID(c))
	if c.Query("unread_only") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var unread int64
	nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", currentUserID(c), false).
		Count(&unread)

	utils.RespondJSON(c, http.StatusOK, "Notifications", gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead flags one of the caller's notifications as read.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("notification_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid notification id"))
		return
	}

	result := nc.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, currentUserID(c)).
		Update("is_read", true)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("notification not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", nil)
}
