// controllers/employee.go
package controllers

import (
	"errors"
	"net/http"

	"carwash-backend/models"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeController struct {
	DB *gorm.DB
}

type CreateEmployeeInput struct {
	Name                  string  `json:"name" binding:"required"`
	Phone                 string  `json:"phone"`
	Address               string  `json:"address"`
	DefaultCommissionRate float64 `json:"defaultCommissionRate" binding:"min=0,max=100"`
}

type UpdateEmployeeInput struct {
	Name                  *string  `json:"name"`
	Phone                 *string  `json:"phone"`
	Address               *string  `json:"address"`
	DefaultCommissionRate *float64 `json:"defaultCommissionRate"`
}

func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	employee := models.Employee{
		UserID:                userID,
		Name:                  input.Name,
		Phone:                 input.Phone,
		Address:               input.Address,
		DefaultCommissionRate: input.DefaultCommissionRate,
	}

	if err := ec.DB.Create(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (ec *EmployeeController) GetEmployees(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var employees []models.Employee
	if err := ec.DB.Where("user_id = ?", userID).Order("name").Find(&employees).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (ec *EmployeeController) GetEmployee(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var employee models.Employee
	if err := ec.DB.Where("user_id = ? AND id = ?", userID, employeeUUID).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var input UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var employee models.Employee
	if err := ec.DB.Where("user_id = ? AND id = ?", userID, employeeUUID).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil && *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Rate changes only affect future allocations; recorded commissions
	// keep the rate they were computed with.
	if input.Name != nil {
		employee.Name = *input.Name
	}
	if input.Phone != nil {
		employee.Phone = *input.Phone
	}
	if input.Address != nil {
		employee.Address = *input.Address
	}
	if input.DefaultCommissionRate != nil {
		employee.DefaultCommissionRate = *input.DefaultCommissionRate
	}

	if err := ec.DB.Save(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	result := ec.DB.Where("user_id = ? AND id = ?", userID, employeeUUID).Delete(&models.Employee{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// Commission payout

type PayCommissionsInput struct {
	TransactionIDs []string `json:"transactionIds" binding:"required,min=1"`
	Notes          string   `json:"notes"`
}

// GetUnpaidCommissions lists an employee's unpaid commission entries from
// completed transactions, newest first.
func (ec *EmployeeController) GetUnpaidCommissions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var employee models.Employee
	if err := ec.DB.Where("user_id = ? AND id = ?", userID, employeeUUID).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var commissions []models.Commission
	if err := ec.DB.
		Where("employee_id = ? AND owner_type = ? AND is_paid = ?", employeeUUID, ownerTransactions, false).
		Where("owner_id IN (?)", ec.DB.Model(&models.Transaction{}).Select("id").Where("user_id = ?", userID)).
		Find(&commissions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve commissions")
		return
	}

	var total float64
	for _, cm := range commissions {
		total += cm.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"employee":    employee,
		"commissions": commissions,
		"totalUnpaid": total,
	})
}

// PayCommissions marks the employee's commission entries on the given
// transactions as paid in a single batch.
func (ec *EmployeeController) PayCommissions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var input PayCommissionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	transactionIDs := make([]uuid.UUID, 0, len(input.TransactionIDs))
	for _, raw := range input.TransactionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID: "+raw)
			return
		}
		transactionIDs = append(transactionIDs, id)
	}

	updates := map[string]interface{}{"is_paid": true}
	if input.Notes != "" {
		updates["notes"] = input.Notes
	}

	result := ec.DB.Model(&models.Commission{}).
		Where("employee_id = ? AND owner_type = ? AND is_paid = ?", employeeUUID, ownerTransactions, false).
		Where("owner_id IN ?", transactionIDs).
		Where("owner_id IN (?)", ec.DB.Model(&models.Transaction{}).Select("id").Where("user_id = ?", userID)).
		Updates(updates)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to pay commissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Commissions marked as paid",
		"count":   result.RowsAffected,
	})
}
