// controllers/service.go
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

type ServiceController struct {
	DB *gorm.DB
}

// CreateServiceInput defines the expected JSON structure for a catalog entry
type CreateServiceInput struct {
	Name           string  `json:"name" binding:"required"`
	Category       string  `json:"category"`
	Price          float64 `json:"price" binding:"required,min=0"`
	CommissionRate float64 `json:"commissionRate" binding:"min=0,max=100"`
}

type UpdateServiceInput struct {
	Name           *string  `json:"name"`
	Category       *string  `json:"category"`
	Price          *float64 `json:"price"`
	CommissionRate *float64 `json:"commissionRate"`
	IsActive       *bool    `json:"isActive"`
}

func (sc *ServiceController) CreateService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service := models.Service{
		UserID:         userID,
		Name:           input.Name,
		Category:       input.Category,
		Price:          input.Price,
		CommissionRate: input.CommissionRate,
		IsActive:       true,
	}

	if err := sc.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (sc *ServiceController) GetServices(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var services []models.Service
	if err := sc.DB.Where("user_id = ?", userID).Order("category, name").Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (sc *ServiceController) GetService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := sc.DB.Where("user_id = ? AND id = ?", userID, serviceUUID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

func (sc *ServiceController) UpdateService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := sc.DB.Where("user_id = ? AND id = ?", userID, serviceUUID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Catalog edits never touch historical line items; those carry their
	// own snapshot of name, price and rate.
	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.CommissionRate != nil {
		service.CommissionRate = *input.CommissionRate
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := sc.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

func (sc *ServiceController) DeleteService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := sc.DB.Where("user_id = ? AND id = ?", userID, serviceUUID).Delete(&models.Service{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

// Category management

type RenameCategoryInput struct {
	OldCategory string `json:"oldCategory" binding:"required"`
	NewCategory string `json:"newCategory" binding:"required"`
}

type DeleteCategoryInput struct {
	Category   string `json:"category" binding:"required"`
	ReassignTo string `json:"reassignTo" binding:"required"`
}

func (sc *ServiceController) GetCategories(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var categories []string
	if err := sc.DB.Model(&models.Service{}).
		Where("user_id = ?", userID).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (sc *ServiceController) RenameCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input RenameCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := sc.DB.Model(&models.Service{}).
		Where("user_id = ? AND category = ?", userID, input.OldCategory).
		Update("category", input.NewCategory).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to rename category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category renamed successfully"})
}

// DeleteCategory moves the category's services to a replacement category
// instead of deleting them.
func (sc *ServiceController) DeleteCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input DeleteCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := sc.DB.Model(&models.Service{}).
		Where("user_id = ? AND category = ?", userID, input.Category).
		Update("category", input.ReassignTo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
