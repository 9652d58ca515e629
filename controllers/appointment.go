// controllers/appointment.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"carwash-backend/engine"
	"carwash-backend/models"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentController struct {
	DB *gorm.DB
}

type CreateAppointmentInput struct {
	LicensePlate    string          `json:"licensePlate" binding:"required"`
	CustomerName    string          `json:"customerName" binding:"required"`
	CustomerPhone   string          `json:"customerPhone" binding:"required"`
	Items           []LineItemInput `json:"items" binding:"required,min=1,dive"`
	EmployeeIDs     []uuid.UUID     `json:"employeeIds"`
	AppointmentDate string          `json:"appointmentDate" binding:"required"`
	AppointmentTime string          `json:"appointmentTime" binding:"required"`
	Notes           string          `json:"notes"`
}

type UpdateAppointmentInput struct {
	LicensePlate    *string         `json:"licensePlate"`
	CustomerName    *string         `json:"customerName"`
	CustomerPhone   *string         `json:"customerPhone"`
	Items           []LineItemInput `json:"items" binding:"omitempty,min=1,dive"`
	EmployeeIDs     []uuid.UUID     `json:"employeeIds"`
	AppointmentDate *string         `json:"appointmentDate"`
	AppointmentTime *string         `json:"appointmentTime"`
	Notes           *string         `json:"notes"`
}

type UpdateAppointmentStatusInput struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
}

type CompleteAppointmentInput struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`
}

// parseAppointmentStart combines the date and HH:MM time into one local
// timestamp.
func parseAppointmentStart(date, hhmm string) (time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment date/time: %w", err)
	}
	return start, nil
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	start, err := parseAppointmentStart(input.AppointmentDate, input.AppointmentTime)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plate := utils.NormalizePlate(input.LicensePlate)
	conflict, err := checkPlate(ac.DB, userID, plate, start, uuid.Nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check license plate")
		return
	}
	if conflict != engine.ConflictNone {
		utils.RespondWithError(c, http.StatusConflict, conflict.Message(plate, start))
		return
	}

	items, err := buildLineItems(ac.DB, userID, input.Items)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve services")
		}
		return
	}

	employees, err := fetchEmployees(ac.DB, userID, input.EmployeeIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more employees not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve employees")
		}
		return
	}

	appointment := models.Appointment{
		UserID:          userID,
		LicensePlate:    plate,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		Items:           items,
		Employees:       employees,
		Commissions:     engine.Allocate(items, employees),
		TotalAmount:     engine.TotalAmount(items),
		AppointmentDate: start,
		AppointmentTime: input.AppointmentTime,
		Status:          models.AppointmentScheduled,
		Notes:           input.Notes,
	}

	if err := ac.DB.Create(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	query := ac.DB.Where("user_id = ?", userID).
		Preload("Items").Preload("Employees").Preload("Commissions")

	if status := c.Query("status"); status != "" {
		s := models.AppointmentStatus(status)
		if !s.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", s)
	}

	var appointments []models.Appointment
	if err := query.Order("appointment_date ASC").Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := ac.DB.Where("user_id = ? AND id = ?", userID, appointmentUUID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := ac.DB.Where("user_id = ? AND id = ?", userID, appointmentUUID).
		Preload("Items").Preload("Employees").
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerPhone != nil && !utils.ValidatePhone(*input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	if input.CustomerName != nil {
		appointment.CustomerName = *input.CustomerName
	}
	if input.CustomerPhone != nil {
		appointment.CustomerPhone = *input.CustomerPhone
	}
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}

	rescheduled := false
	if input.AppointmentDate != nil || input.AppointmentTime != nil {
		date := appointment.AppointmentDate.Format("2006-01-02")
		if input.AppointmentDate != nil {
			date = *input.AppointmentDate
		}
		hhmm := appointment.AppointmentTime
		if input.AppointmentTime != nil {
			hhmm = *input.AppointmentTime
		}
		start, err := parseAppointmentStart(date, hhmm)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		appointment.AppointmentDate = start
		appointment.AppointmentTime = hhmm
		// A moved appointment gets a fresh reminder for the new slot.
		appointment.ReminderSent = false
		rescheduled = true
	}

	if input.LicensePlate != nil {
		appointment.LicensePlate = utils.NormalizePlate(*input.LicensePlate)
	}
	if input.LicensePlate != nil || rescheduled {
		conflict, err := checkPlate(ac.DB, userID, appointment.LicensePlate, appointment.AppointmentDate, appointment.ID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check license plate")
			return
		}
		if conflict != engine.ConflictNone {
			utils.RespondWithError(c, http.StatusConflict, conflict.Message(appointment.LicensePlate, appointment.AppointmentDate))
			return
		}
	}

	rebuild := input.Items != nil || input.EmployeeIDs != nil

	var items []models.LineItem
	var employees []models.Employee
	if rebuild {
		if input.Items != nil {
			items, err = buildLineItems(ac.DB, userID, input.Items)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve services")
				}
				return
			}
		} else {
			items = copyLineItems(appointment.Items)
		}

		if input.EmployeeIDs != nil {
			employees, err = fetchEmployees(ac.DB, userID, input.EmployeeIDs)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusBadRequest, "One or more employees not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve employees")
				}
				return
			}
		} else {
			employees = appointment.Employees
		}
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if rescheduled {
			// Drop the unread reminder for the old slot; the sweep will
			// create a fresh one for the new time.
			if err := tx.Where("appointment_id = ? AND is_read = ?", appointment.ID, false).
				Delete(&models.AppointmentReminder{}).Error; err != nil {
				return err
			}
		}

		if rebuild {
			if err := deleteWorkItemChildren(tx, ownerAppointments, appointment.ID); err != nil {
				return err
			}

			commissions := engine.Allocate(items, employees)
			for i := range items {
				items[i].OwnerID = appointment.ID
				items[i].OwnerType = ownerAppointments
			}
			for i := range commissions {
				commissions[i].OwnerID = appointment.ID
				commissions[i].OwnerType = ownerAppointments
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
			if len(commissions) > 0 {
				if err := tx.Create(&commissions).Error; err != nil {
					return err
				}
			}

			if err := tx.Model(&appointment).Association("Employees").Replace(employees); err != nil {
				return err
			}
			appointment.TotalAmount = engine.TotalAmount(items)
		}

		return tx.Omit("Items", "Employees", "Commissions").Save(&appointment).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	var updated models.Appointment
	if err := ac.DB.Where("id = ?", appointment.ID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		First(&updated).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reload appointment")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UpdateAppointmentStatus enforces the status transition rules; completing
// through this endpoint is rejected because completion must record a payment.
func (ac *AppointmentController) UpdateAppointmentStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateAppointmentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.Status.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
		return
	}
	if input.Status == models.AppointmentCompleted {
		utils.RespondWithError(c, http.StatusBadRequest, "Use the complete endpoint to record a payment")
		return
	}

	var appointment models.Appointment
	if err := ac.DB.Where("user_id = ? AND id = ?", userID, appointmentUUID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !appointment.Status.CanTransitionTo(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot change status from %s to %s", appointment.Status, input.Status))
		return
	}

	appointment.Status = input.Status
	if err := ac.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment status")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// CompleteAppointment creates a paid transaction from the appointment and
// marks it completed. The appointment record stays for history.
func (ac *AppointmentController) CompleteAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input CompleteAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.PaymentMethod.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
		return
	}

	var appointment models.Appointment
	if err := ac.DB.Where("user_id = ? AND id = ?", userID, appointmentUUID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !appointment.Status.CanTransitionTo(models.AppointmentCompleted) {
		utils.RespondWithError(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot complete an appointment with status %s", appointment.Status))
		return
	}

	transaction := models.Transaction{
		UserID:        userID,
		LicensePlate:  appointment.LicensePlate,
		Items:         copyLineItems(appointment.Items),
		Employees:     appointment.Employees,
		Commissions:   copyCommissions(appointment.Commissions),
		PaymentMethod: input.PaymentMethod,
		TotalAmount:   appointment.TotalAmount,
		Date:          time.Now(),
		Notes:         appointment.Notes,
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		return tx.Model(&appointment).Update("status", models.AppointmentCompleted).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete appointment")
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := ac.DB.Where("user_id = ? AND id = ?", userID, appointmentUUID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteWorkItemChildren(tx, ownerAppointments, appointment.ID); err != nil {
			return err
		}
		if err := tx.Model(&appointment).Association("Employees").Clear(); err != nil {
			return err
		}
		if err := tx.Where("appointment_id = ?", appointment.ID).
			Delete(&models.AppointmentReminder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&appointment).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
