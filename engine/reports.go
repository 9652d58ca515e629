package engine

import (
	"sort"

	"carwash-backend/models"

	"github.com/google/uuid"
)

// DailyRow is one calendar day's totals. The csv tags drive the export.
type DailyRow struct {
	Date             string  `json:"date" csv:"date"`
	TotalAmount      float64 `json:"totalAmount" csv:"total_income"`
	TransactionCount int     `json:"transactionCount" csv:"transactions"`
	CommissionTotal  float64 `json:"commissionTotal" csv:"total_commission"`
	ServiceCount     int     `json:"serviceCount" csv:"services"`
	Cash             float64 `json:"cash" csv:"cash"`
	Transfer         float64 `json:"transfer" csv:"transfer"`
	Card             float64 `json:"card" csv:"card"`
}

// AggregateByDay groups transactions by local calendar date. Rows come back
// sorted by date ascending; the function is a pure fold, calling it twice
// on the same input yields identical output.
func AggregateByDay(transactions []models.Transaction) []DailyRow {
	byDay := make(map[string]*DailyRow)

	for _, t := range transactions {
		key := t.Date.Format("2006-01-02")
		row, ok := byDay[key]
		if !ok {
			row = &DailyRow{Date: key}
			byDay[key] = row
		}

		row.TotalAmount += t.TotalAmount
		row.TransactionCount++
		row.ServiceCount += len(t.Items)
		for _, c := range t.Commissions {
			row.CommissionTotal += c.Amount
		}
		switch t.PaymentMethod {
		case models.PaymentCash:
			row.Cash += t.TotalAmount
		case models.PaymentTransfer:
			row.Transfer += t.TotalAmount
		case models.PaymentCard:
			row.Card += t.TotalAmount
		}
	}

	rows := make([]DailyRow, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// EmployeeRow summarizes one employee over the report range.
type EmployeeRow struct {
	EmployeeID      uuid.UUID `json:"employeeId" csv:"-"`
	Name            string    `json:"name" csv:"employee"`
	Phone           string    `json:"phone" csv:"phone"`
	DefaultRate     float64   `json:"defaultRate" csv:"default_rate"`
	CommissionTotal float64   `json:"commissionTotal" csv:"total_commission"`
	ServiceCount    int       `json:"serviceCount" csv:"services"`
	RevenueShare    float64   `json:"revenueShare" csv:"revenue_share"`
	PaidCount       int       `json:"paidCount" csv:"paid"`
	UnpaidCount     int       `json:"unpaidCount" csv:"unpaid"`
}

// AggregateByEmployee folds commissions and participation per employee.
// Commission totals and the paid/unpaid counts come from commission
// entries; service counts and the revenue share (an even totalAmount split
// among the transaction's crew) come from the transactions the employee
// worked on.
func AggregateByEmployee(transactions []models.Transaction, employees []models.Employee) []EmployeeRow {
	rows := make([]EmployeeRow, 0, len(employees))
	index := make(map[uuid.UUID]int, len(employees))

	for _, emp := range employees {
		index[emp.ID] = len(rows)
		rows = append(rows, EmployeeRow{
			EmployeeID:  emp.ID,
			Name:        emp.Name,
			Phone:       emp.Phone,
			DefaultRate: emp.DefaultCommissionRate,
		})
	}

	for _, t := range transactions {
		for _, c := range t.Commissions {
			i, ok := index[c.EmployeeID]
			if !ok {
				continue
			}
			rows[i].CommissionTotal += c.Amount
			if c.IsPaid {
				rows[i].PaidCount++
			} else {
				rows[i].UnpaidCount++
			}
		}

		if len(t.Employees) == 0 {
			continue
		}
		share := t.TotalAmount / float64(len(t.Employees))
		for _, emp := range t.Employees {
			i, ok := index[emp.ID]
			if !ok {
				continue
			}
			rows[i].RevenueShare += share
			rows[i].ServiceCount += len(t.Items)
		}
	}

	return rows
}

// ServiceRow summarizes one catalog service over the report range.
type ServiceRow struct {
	ServiceID      uuid.UUID `json:"serviceId" csv:"-"`
	Name           string    `json:"name" csv:"service"`
	Revenue        float64   `json:"revenue" csv:"revenue"`
	Count          int       `json:"count" csv:"performed"`
	AveragePrice   float64   `json:"averagePrice" csv:"average_price"`
	CommissionPool float64   `json:"commissionPool" csv:"commission_pool"`
}

// AggregateByService folds line items per distinct service id, summing
// revenue and the commission pool each occurrence generated. The snapshot
// values on the line items are used, not the current catalog.
func AggregateByService(transactions []models.Transaction) []ServiceRow {
	byService := make(map[uuid.UUID]*ServiceRow)
	var order []uuid.UUID

	for _, t := range transactions {
		for _, item := range t.Items {
			row, ok := byService[item.ServiceID]
			if !ok {
				row = &ServiceRow{ServiceID: item.ServiceID, Name: item.ServiceName}
				byService[item.ServiceID] = row
				order = append(order, item.ServiceID)
			}
			row.Revenue += item.Price
			row.Count++
			row.CommissionPool += item.Price * item.CommissionRate / 100
		}
	}

	rows := make([]ServiceRow, 0, len(order))
	for _, id := range order {
		row := byService[id]
		if row.Count > 0 {
			row.AveragePrice = row.Revenue / float64(row.Count)
		}
		rows = append(rows, *row)
	}
	return rows
}
