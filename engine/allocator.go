// Package engine holds the pure business logic of the shop: commission
// allocation, work-item reconciliation, license-plate conflict checking and
// report aggregation. Nothing here touches the database or any other I/O;
// every function is a fold over collections the caller already fetched, so
// concurrent calls are safe by construction.
package engine

import (
	"carwash-backend/models"

	"github.com/google/uuid"
)

// Allocate distributes the commission pool of each line item across the
// selected employees, weighted by their default commission rates.
//
// The pool per item is price * item rate / 100: the service's rate decides
// how much commission an item generates, the employees' rates only decide
// how it is split. One Commission record is returned per employee,
// accumulated across all items, tagged with the employee's default rate at
// allocation time.
//
// With no employees selected, or with a zero rate sum (all selected
// employees at 0%), no commissions are produced. The zero-sum case is a
// policy choice, not an error: it avoids dividing by zero and means a crew
// of 0% employees earns nothing rather than an arbitrary even split.
func Allocate(items []models.LineItem, employees []models.Employee) []models.Commission {
	if len(employees) == 0 {
		return nil
	}

	var rateSum float64
	for _, emp := range employees {
		rateSum += emp.DefaultCommissionRate
	}
	if rateSum == 0 {
		return nil
	}

	commissions := make([]models.Commission, 0, len(employees))
	index := make(map[uuid.UUID]int, len(employees))

	for _, item := range items {
		pool := item.Price * item.CommissionRate / 100

		for _, emp := range employees {
			share := pool * (emp.DefaultCommissionRate / rateSum)

			if i, ok := index[emp.ID]; ok {
				commissions[i].Amount += share
				continue
			}
			index[emp.ID] = len(commissions)
			commissions = append(commissions, models.Commission{
				EmployeeID:     emp.ID,
				EmployeeName:   emp.Name,
				Amount:         share,
				CommissionRate: emp.DefaultCommissionRate,
				IsPaid:         false,
				Notes:          "",
			})
		}
	}

	return commissions
}

// CommissionPool is the total commission generated by a set of line items,
// before any split. Allocate conserves this value across its output.
func CommissionPool(items []models.LineItem) float64 {
	var pool float64
	for _, item := range items {
		pool += item.Price * item.CommissionRate / 100
	}
	return pool
}

// TotalAmount sums line item prices; every work item's totalAmount must
// equal this.
func TotalAmount(items []models.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}
