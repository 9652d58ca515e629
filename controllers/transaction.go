// controllers/transaction.go
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

type TransactionController struct {
	DB *gorm.DB
}

type CreateTransactionInput struct {
	LicensePlate  string               `json:"licensePlate" binding:"required"`
	Items         []LineItemInput      `json:"items" binding:"required,min=1,dive"`
	EmployeeIDs   []uuid.UUID          `json:"employeeIds" binding:"required,min=1"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`
	Date          *time.Time           `json:"date"`
	Notes         string               `json:"notes"`
}

type UpdateTransactionInput struct {
	LicensePlate  *string               `json:"licensePlate"`
	Items         []LineItemInput       `json:"items" binding:"omitempty,min=1,dive"`
	EmployeeIDs   []uuid.UUID           `json:"employeeIds"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod"`
	Date          *time.Time            `json:"date"`
	Notes         *string               `json:"notes"`
}

func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !input.PaymentMethod.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
		return
	}

	plate := utils.NormalizePlate(input.LicensePlate)
	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	conflict, err := checkPlate(tc.DB, userID, plate, date, uuid.Nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check license plate")
		return
	}
	if conflict != engine.ConflictNone {
		utils.RespondWithError(c, http.StatusConflict, conflict.Message(plate, date))
		return
	}

	items, err := buildLineItems(tc.DB, userID, input.Items)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve services")
		}
		return
	}

	employees, err := fetchEmployees(tc.DB, userID, input.EmployeeIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more employees not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve employees")
		}
		return
	}

	transaction := models.Transaction{
		UserID:        userID,
		LicensePlate:  plate,
		Items:         items,
		Employees:     employees,
		Commissions:   engine.Allocate(items, employees),
		PaymentMethod: input.PaymentMethod,
		TotalAmount:   engine.TotalAmount(items),
		Date:          date,
		Notes:         input.Notes,
	}

	if err := tc.DB.Create(&transaction).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (tc *TransactionController) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	query := tc.DB.Where("user_id = ?", userID).
		Preload("Items").Preload("Employees").Preload("Commissions")

	if from := c.Query("from"); from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("date >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("date < ?", t.AddDate(0, 0, 1))
	}
	if plate := c.Query("plate"); plate != "" {
		query = query.Where("license_plate = ?", utils.NormalizePlate(plate))
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC").Find(&transactions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (tc *TransactionController) GetTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	transactionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	var transaction models.Transaction
	if err := tc.DB.Where("user_id = ? AND id = ?", userID, transactionUUID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction replaces the edited fields; when items or employees
// change, the children are rebuilt and the commission allocation recomputed
// from scratch.
func (tc *TransactionController) UpdateTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	transactionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	var input UpdateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var transaction models.Transaction
	if err := tc.DB.Where("user_id = ? AND id = ?", userID, transactionUUID).
		Preload("Items").Preload("Employees").
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.LicensePlate != nil {
		transaction.LicensePlate = utils.NormalizePlate(*input.LicensePlate)
	}
	if input.Date != nil {
		transaction.Date = *input.Date
	}
	if input.PaymentMethod != nil {
		if !input.PaymentMethod.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
			return
		}
		transaction.PaymentMethod = *input.PaymentMethod
	}
	if input.Notes != nil {
		transaction.Notes = *input.Notes
	}

	if input.LicensePlate != nil || input.Date != nil {
		conflict, err := checkPlate(tc.DB, userID, transaction.LicensePlate, transaction.Date, transaction.ID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check license plate")
			return
		}
		if conflict != engine.ConflictNone {
			utils.RespondWithError(c, http.StatusConflict, conflict.Message(transaction.LicensePlate, transaction.Date))
			return
		}
	}

	rebuild := input.Items != nil || input.EmployeeIDs != nil

	var items []models.LineItem
	var employees []models.Employee
	if rebuild {
		if input.Items != nil {
			items, err = buildLineItems(tc.DB, userID, input.Items)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve services")
				}
				return
			}
		} else {
			items = copyLineItems(transaction.Items)
		}

		if input.EmployeeIDs != nil {
			employees, err = fetchEmployees(tc.DB, userID, input.EmployeeIDs)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusBadRequest, "One or more employees not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve employees")
				}
				return
			}
		} else {
			employees = transaction.Employees
		}
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if rebuild {
			if err := deleteWorkItemChildren(tx, ownerTransactions, transaction.ID); err != nil {
				return err
			}

			commissions := engine.Allocate(items, employees)
			for i := range items {
				items[i].OwnerID = transaction.ID
				items[i].OwnerType = ownerTransactions
			}
			for i := range commissions {
				commissions[i].OwnerID = transaction.ID
				commissions[i].OwnerType = ownerTransactions
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

			if err := tx.Model(&transaction).Association("Employees").Replace(employees); err != nil {
				return err
			}
			transaction.TotalAmount = engine.TotalAmount(items)
		}

		return tx.Omit("Items", "Employees", "Commissions").Save(&transaction).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	var updated models.Transaction
	if err := tc.DB.Where("id = ?", transaction.ID).
		Preload("Items").Preload("Employees").Preload("Commissions").
		First(&updated).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reload transaction")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (tc *TransactionController) DeleteTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	transactionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	var transaction models.Transaction
	if err := tc.DB.Where("user_id = ? AND id = ?", userID, transactionUUID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteWorkItemChildren(tx, ownerTransactions, transaction.ID); err != nil {
			return err
		}
		if err := tx.Model(&transaction).Association("Employees").Clear(); err != nil {
			return err
		}
		return tx.Delete(&transaction).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// CheckPlate answers whether a plate is free on a given date before the
// operator commits a record.
func (tc *TransactionController) CheckPlate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	plate := utils.NormalizePlate(c.Query("plate"))
	if plate == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing 'plate' query parameter")
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'date', expected YYYY-MM-DD")
			return
		}
		date = t
	}

	excludeID := uuid.Nil
	if raw := c.Query("excludeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'excludeId' format")
			return
		}
		excludeID = id
	}

	conflict, err := checkPlate(tc.DB, userID, plate, date, excludeID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check license plate")
		return
	}

	resp := gin.H{"available": conflict == engine.ConflictNone}
	if conflict != engine.ConflictNone {
		resp["message"] = conflict.Message(plate, date)
	}
	c.JSON(http.StatusOK, resp)
}
