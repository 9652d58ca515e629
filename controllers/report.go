// controllers/report.go
package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"carwash-backend/engine"
	"carwash-backend/models"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportController struct {
	DB *gorm.DB
}

// reportRange parses the from/to query parameters; defaults to the last 30
// days when missing. The returned end is exclusive.
func reportRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := utils.BeginningOfDay(now.AddDate(0, 0, -30))
	to := utils.BeginningOfDay(now).AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'from' date, expected YYYY-MM-DD")
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'to' date, expected YYYY-MM-DD")
		}
		to = t.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("'from' must be before 'to'")
	}
	return from, to, nil
}

func (rc *ReportController) loadTransactions(userID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := rc.DB.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Preload("Items").Preload("Employees").Preload("Commissions").
		Order("date ASC").
		Find(&transactions).Error
	return transactions, err
}

// GetReport serves one aggregation selected by ?type=daily|employee|service
// over the requested date range.
func (rc *ReportController) GetReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	from, to, err := reportRange(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := rc.loadTransactions(userID, from, to)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	reportType := c.DefaultQuery("type", "daily")
	switch reportType {
	case "daily":
		c.JSON(http.StatusOK, gin.H{"type": reportType, "rows": engine.AggregateByDay(transactions)})
	case "employee":
		var employees []models.Employee
		if err := rc.DB.Where("user_id = ?", userID).Order("name").Find(&employees).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": reportType, "rows": engine.AggregateByEmployee(transactions, employees)})
	case "service":
		c.JSON(http.StatusOK, gin.H{"type": reportType, "rows": engine.AggregateByService(transactions)})
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown report type: "+reportType)
	}
}

// ExportReport streams all three aggregations as one CSV download with a
// section header before each block.
func (rc *ReportController) ExportReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	from, to, err := reportRange(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := rc.loadTransactions(userID, from, to)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	var employees []models.Employee
	if err := rc.DB.Where("user_id = ?", userID).Order("name").Find(&employees).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	daily, err := gocsv.MarshalString(engine.AggregateByDay(transactions))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}
	byEmployee, err := gocsv.MarshalString(engine.AggregateByEmployee(transactions, employees))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}
	byService, err := gocsv.MarshalString(engine.AggregateByService(transactions))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	var sb strings.Builder
	sb.WriteString("DAILY\n")
	sb.WriteString(daily)
	sb.WriteString("\nEMPLOYEES\n")
	sb.WriteString(byEmployee)
	sb.WriteString("\nSERVICES\n")
	sb.WriteString(byService)

	filename := fmt.Sprintf("report_%s_%s.csv",
		from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02"))

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(sb.String()))
}
