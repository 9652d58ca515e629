// controllers/reminder.go
package controllers

import (
	"net/http"
	"time"

	"carwash-backend/models"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderController struct {
	DB *gorm.DB
}

// GetActiveReminders returns the unread reminders whose fire time has
// passed, oldest first, for the in-app notification bell.
func (rc *ReminderController) GetActiveReminders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var reminders []models.AppointmentReminder
	if err := rc.DB.Where("user_id = ? AND is_read = ? AND reminder_time <= ?", userID, false, time.Now()).
		Order("reminder_time ASC").
		Find(&reminders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminders")
		return
	}

	c.JSON(http.StatusOK, reminders)
}

func (rc *ReminderController) MarkReminderRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	reminderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reminder ID format")
		return
	}

	result := rc.DB.Model(&models.AppointmentReminder{}).
		Where("user_id = ? AND id = ?", userID, reminderUUID).
		Update("is_read", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update reminder")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Reminder not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder marked as read"})
}

func (rc *ReminderController) MarkAllRemindersRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	result := rc.DB.Model(&models.AppointmentReminder{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update reminders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All reminders marked as read", "count": result.RowsAffected})
}
