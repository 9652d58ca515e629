package controllers

import (
	"fmt"
	"time"

	"carwash-backend/engine"
	"carwash-backend/models"
	"carwash-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Polymorphic owner_type values GORM writes for work-item children.
const (
	ownerTransactions    = "transactions"
	ownerPendingServices = "pending_services"
	ownerAppointments    = "appointments"
)

// LineItemInput selects one catalog service and a quantity.
type LineItemInput struct {
	ServiceID uuid.UUID `json:"serviceId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=1"`
}

// buildLineItems snapshots catalog name, price and commission rate into
// line items, multiplying quantity into the price. Catalog edits after this
// point never touch the created records.
func buildLineItems(db *gorm.DB, userID uuid.UUID, inputs []LineItemInput) ([]models.LineItem, error) {
	items := make([]models.LineItem, 0, len(inputs))
	for _, in := range inputs {
		var svc models.Service
		if err := db.Where("user_id = ? AND id = ?", userID, in.ServiceID).First(&svc).Error; err != nil {
			return nil, fmt.Errorf("service %s: %w", in.ServiceID, err)
		}

		items = append(items, models.LineItem{
			ServiceID:      svc.ID,
			ServiceName:    svc.Name,
			Price:          svc.Price * float64(in.Quantity),
			CommissionRate: svc.CommissionRate,
		})
	}
	return items, nil
}

// fetchEmployees resolves the selected employee ids, all scoped to the user.
func fetchEmployees(db *gorm.DB, userID uuid.UUID, ids []uuid.UUID) ([]models.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var employees []models.Employee
	if err := db.Where("user_id = ? AND id IN ?", userID, ids).Find(&employees).Error; err != nil {
		return nil, err
	}
	if len(employees) != len(ids) {
		return nil, fmt.Errorf("employee: %w", gorm.ErrRecordNotFound)
	}
	return employees, nil
}

// checkPlate fetches the day's records for the plate's calendar date and
// runs the conflict predicate over them. excludeID skips the record being
// edited.
func checkPlate(db *gorm.DB, userID uuid.UUID, plate string, date time.Time, excludeID uuid.UUID) (engine.Conflict, error) {
	dayStart := utils.BeginningOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var transactions []models.Transaction
	if err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Find(&transactions).Error; err != nil {
		return engine.ConflictNone, err
	}

	var pending []models.PendingService
	if err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Find(&pending).Error; err != nil {
		return engine.ConflictNone, err
	}

	var appointments []models.Appointment
	if err := db.Where("user_id = ? AND appointment_date >= ? AND appointment_date < ?", userID, dayStart, dayEnd).
		Find(&appointments).Error; err != nil {
		return engine.ConflictNone, err
	}

	return engine.PlateConflict(plate, date, transactions, pending, appointments, excludeID), nil
}

// deleteWorkItemChildren removes the polymorphic line items and commissions
// of one work item inside the given transaction.
func deleteWorkItemChildren(tx *gorm.DB, ownerType string, ownerID uuid.UUID) error {
	if err := tx.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	return tx.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Delete(&models.Commission{}).Error
}

// copyLineItems clones line items for a converted work item; fresh IDs are
// assigned on create.
func copyLineItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.LineItem{
			ServiceID:      item.ServiceID,
			ServiceName:    item.ServiceName,
			Price:          item.Price,
			CommissionRate: item.CommissionRate,
		})
	}
	return out
}

// copyCommissions clones commission records for a converted work item; the
// payment state resets to unpaid.
func copyCommissions(commissions []models.Commission) []models.Commission {
	out := make([]models.Commission, 0, len(commissions))
	for _, cm := range commissions {
		out = append(out, models.Commission{
			EmployeeID:     cm.EmployeeID,
			EmployeeName:   cm.EmployeeName,
			Amount:         cm.Amount,
			CommissionRate: cm.CommissionRate,
			IsPaid:         false,
			Notes:          "",
		})
	}
	return out
}
