// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"carwash-backend/engine"
	"carwash-backend/models"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

// GetDashboard assembles today's numbers in one response: the stats card,
// the work queue due today and the upcoming appointment list.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	now := time.Now()
	dayStart := utils.BeginningOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var transactions []models.Transaction
	if err := dc.DB.Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Preload("Items").Preload("Commissions").
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	var pending []models.PendingService
	if err := dc.DB.Where("user_id = ?", userID).
		Preload("Items").Preload("Employees").
		Order("date ASC").
		Find(&pending).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve pending services")
		return
	}

	var appointments []models.Appointment
	if err := dc.DB.Where("user_id = ?", userID).
		Preload("Items").Preload("Employees").
		Order("appointment_date ASC").
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":          engine.StatsFor(transactions, pending, appointments, now),
		"dueToday":       engine.DueToday(pending, appointments, now),
		"upcoming":       engine.Upcoming(appointments, now),
		"todayCompleted": engine.CompletedOn(transactions, now),
	})
}
