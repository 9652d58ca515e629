// controllers/pending.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"carwash-backend/engine"
	"carwash-backend/models"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PendingController struct {
	DB *gorm.DB
}

type CreatePendingInput struct {
	LicensePlate        string          `json:"licensePlate" binding:"required"`
	Items               []LineItemInput `json:"items" binding:"required,min=1,dive"`
	EmployeeIDs         []uuid.UUID     `json:"employeeIds" binding:"required,min=1"`
	EstimatedCompletion *time.Time      `json:"estimatedCompletion"`
	Notes               string          `json:"notes"`
}

type UpdatePendingInput struct {
	LicensePlate        *string         `json:"licensePlate"`
	Items               []LineItemInput `json:"items" binding:"omitempty,min=1,dive"`
	EmployeeIDs         []uuid.UUID     `json:"employeeIds"`
	EstimatedCompletion *time.Time      `json:"estimatedCompletion"`
	Notes               *string         `json:"notes"`
}

type CompletePendingInput struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`
}

func (pc *PendingController) CreatePending(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input CreatePendingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	plate := utils.NormalizePlate(input.LicensePlate)
	now := time.Now()

	conflict, err := checkPlate(pc.DB, userID, plate, now, uuid.Nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check license plate")
		return
	}
	if conflict != engine.ConflictNone {
		utils.RespondWithError(c, http.StatusConflict, conflict.Message(plate, now))
		return
	}

	items, err := buildLineItems(pc.DB, userID, input.Items)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve services")
		}
		return
	}

	employees, err := fetchEmployees(pc.DB, userID, input.EmployeeIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more employees not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve employees")
		}
		return
	}

	pending := models.PendingService{
		UserID:              userID,
		LicensePlate:        plate,
		Items:               items,
		Employees:           employees,
		Commissions:         engine.Allocate(items, employees),
		TotalAmount:         engine.TotalAmount(items),
		Date:                now,
		EstimatedCompletion: input.EstimatedCompletion,
		Notes:               input.Notes,
	}

	if err := pc.DB.Create(&pending).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create pending service")
		return
	}

	c.JSON(http.StatusCreated, pending)
}

func (pc *PendingController) GetPendingServices(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var pending []models.PendingService
	if err := pc.DB.Where("user_id = ?", userID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		Order("date ASC").Find(&pending).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve pending services")
		return
	}

	c.JSON(http.StatusOK, pending)
}

func (pc *PendingController) GetPendingService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	pendingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid pending service ID format")
		return
	}

	var pending models.PendingService
	if err := pc.DB.Where("user_id = ? AND id = ?", userID, pendingUUID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		First(&pending).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pending service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, pending)
}

func (pc *PendingController) UpdatePendingService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	pendingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid pending service ID format")
		return
	}

	var input UpdatePendingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var pending models.PendingService
	if err := pc.DB.Where("user_id = ? AND id = ?", userID, pendingUUID).
		Preload("Items").Preload("Employees").
		First(&pending).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pending service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.LicensePlate != nil {
		plate := utils.NormalizePlate(*input.LicensePlate)
		conflict, err := checkPlate(pc.DB, userID, plate, pending.Date, pending.ID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check license plate")
			return
		}
		if conflict != engine.ConflictNone {
			utils.RespondWithError(c, http.StatusConflict, conflict.Message(plate, pending.Date))
			return
		}
		pending.LicensePlate = plate
	}
	if input.EstimatedCompletion != nil {
		pending.EstimatedCompletion = input.EstimatedCompletion
	}
	if input.Notes != nil {
		pending.Notes = *input.Notes
	}

	rebuild := input.Items != nil || input.EmployeeIDs != nil

	var items []models.LineItem
	var employees []models.Employee
	if rebuild {
		if input.Items != nil {
			items, err = buildLineItems(pc.DB, userID, input.Items)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve services")
				}
				return
			}
		} else {
			items = copyLineItems(pending.Items)
		}

		if input.EmployeeIDs != nil {
			employees, err = fetchEmployees(pc.DB, userID, input.EmployeeIDs)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusBadRequest, "One or more employees not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve employees")
				}
				return
			}
		} else {
			employees = pending.Employees
		}
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if rebuild {
			if err := deleteWorkItemChildren(tx, ownerPendingServices, pending.ID); err != nil {
				return err
			}

			commissions := engine.Allocate(items, employees)
			for i := range items {
				items[i].OwnerID = pending.ID
				items[i].OwnerType = ownerPendingServices
			}
			for i := range commissions {
				commissions[i].OwnerID = pending.ID
				commissions[i].OwnerType = ownerPendingServices
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

			if err := tx.Model(&pending).Association("Employees").Replace(employees); err != nil {
				return err
			}
			pending.TotalAmount = engine.TotalAmount(items)
		}

		return tx.Omit("Items", "Employees", "Commissions").Save(&pending).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update pending service")
		return
	}

	var updated models.PendingService
	if err := pc.DB.Where("id = ?", pending.ID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		First(&updated).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reload pending service")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CompletePendingService converts the pending service into a paid
// transaction dated now. The pending record and its children are removed in
// the same database transaction that creates the new one.
func (pc *PendingController) CompletePendingService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	pendingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid pending service ID format")
		return
	}

	var input CompletePendingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.PaymentMethod.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
		return
	}

	var pending models.PendingService
	if err := pc.DB.Where("user_id = ? AND id = ?", userID, pendingUUID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		First(&pending).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pending service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	transaction := models.Transaction{
		UserID:        userID,
		LicensePlate:  pending.LicensePlate,
		Items:         copyLineItems(pending.Items),
		Employees:     pending.Employees,
		Commissions:   copyCommissions(pending.Commissions),
		PaymentMethod: input.PaymentMethod,
		TotalAmount:   pending.TotalAmount,
		Date:          time.Now(),
		Notes:         pending.Notes,
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		if err := deleteWorkItemChildren(tx, ownerPendingServices, pending.ID); err != nil {
			return err
		}
		if err := tx.Model(&pending).Association("Employees").Clear(); err != nil {
			return err
		}
		return tx.Delete(&pending).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete pending service")
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (pc *PendingController) DeletePendingService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	pendingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid pending service ID format")
		return
	}

	var pending models.PendingService
	if err := pc.DB.Where("user_id = ? AND id = ?", userID, pendingUUID).First(&pending).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pending service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteWorkItemChildren(tx, ownerPendingServices, pending.ID); err != nil {
			return err
		}
		if err := tx.Model(&pending).Association("Employees").Clear(); err != nil {
			return err
		}
		return tx.Delete(&pending).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete pending service")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pending service deleted successfully"})
}
