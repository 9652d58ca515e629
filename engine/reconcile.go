package engine

import (
	"time"

	"carwash-backend/models"
	"carwash-backend/utils"
)

// PendingKind discriminates the two shapes a due-today item can have.
type PendingKind string

const (
	PendingKindService     PendingKind = "service"
	PendingKindAppointment PendingKind = "appointment"
)

// PendingItem is the tagged union presented to the operator's pending
// queue: either a car mid-wash or an appointment whose time has come.
// Exactly one of Service/Appointment is set, matching Kind.
type PendingItem struct {
	Kind        PendingKind            `json:"kind"`
	Service     *models.PendingService `json:"service,omitempty"`
	Appointment *models.Appointment    `json:"appointment,omitempty"`
}

func (p PendingItem) Amount() float64 {
	switch p.Kind {
	case PendingKindService:
		return p.Service.TotalAmount
	case PendingKindAppointment:
		return p.Appointment.TotalAmount
	}
	return 0
}

func (p PendingItem) Plate() string {
	switch p.Kind {
	case PendingKindService:
		return p.Service.LicensePlate
	case PendingKindAppointment:
		return p.Appointment.LicensePlate
	}
	return ""
}

// DueToday merges the operator's pending queue: every pending service
// regardless of date, plus appointments dated today or earlier that are
// still scheduled or confirmed (the customer is due but the car has not
// been washed).
func DueToday(pending []models.PendingService, appointments []models.Appointment, today time.Time) []PendingItem {
	items := make([]PendingItem, 0, len(pending))

	for i := range pending {
		items = append(items, PendingItem{Kind: PendingKindService, Service: &pending[i]})
	}

	startOfToday := utils.BeginningOfDay(today)
	for i := range appointments {
		a := &appointments[i]
		if !a.Status.Active() {
			continue
		}
		if utils.BeginningOfDay(a.AppointmentDate).After(startOfToday) {
			continue
		}
		items = append(items, PendingItem{Kind: PendingKindAppointment, Appointment: a})
	}

	return items
}

// Upcoming returns appointments from today onward that are neither
// cancelled nor completed, newest booking intent first left to the caller's
// ordering.
func Upcoming(appointments []models.Appointment, today time.Time) []models.Appointment {
	startOfToday := utils.BeginningOfDay(today)

	var out []models.Appointment
	for _, a := range appointments {
		if a.Status == models.AppointmentCancelled || a.Status == models.AppointmentCompleted {
			continue
		}
		if a.AppointmentDate.Before(startOfToday) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// CompletedOn filters completed transactions whose local calendar date
// equals day. Calendar equality, never an elapsed-24h window: a 23:59 and a
// next-day 00:01 transaction land in different buckets.
func CompletedOn(transactions []models.Transaction, day time.Time) []models.Transaction {
	var out []models.Transaction
	for _, t := range transactions {
		if t.Status != models.TransactionCompleted {
			continue
		}
		if !utils.SameDay(t.Date, day) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// PaymentBreakdown splits today's income by settlement method.
type PaymentBreakdown struct {
	Cash     float64 `json:"cash"`
	Transfer float64 `json:"transfer"`
	Card     float64 `json:"card"`
}

// Stats is the dashboard summary for one calendar day.
type Stats struct {
	TotalIncome      float64          `json:"totalIncome"`
	TotalServices    int              `json:"totalServices"`
	TotalCommissions float64          `json:"totalCommissions"`
	PendingCount     int              `json:"pendingServices"`
	PendingAmount    float64          `json:"pendingAmount"`
	AppointmentCount int              `json:"appointmentCount"`
	PaymentMethods   PaymentBreakdown `json:"paymentMethods"`
}

// StatsFor computes the dashboard figures: income, service and commission
// totals come from today's completed transactions only; the pending figures
// cover the full due-today queue; the appointment count is all upcoming
// active appointments.
func StatsFor(transactions []models.Transaction, pending []models.PendingService, appointments []models.Appointment, today time.Time) Stats {
	var stats Stats

	for _, t := range CompletedOn(transactions, today) {
		stats.TotalIncome += t.TotalAmount
		stats.TotalServices += len(t.Items)
		for _, c := range t.Commissions {
			stats.TotalCommissions += c.Amount
		}
		switch t.PaymentMethod {
		case models.PaymentCash:
			stats.PaymentMethods.Cash += t.TotalAmount
		case models.PaymentTransfer:
			stats.PaymentMethods.Transfer += t.TotalAmount
		case models.PaymentCard:
			stats.PaymentMethods.Card += t.TotalAmount
		}
	}

	due := DueToday(pending, appointments, today)
	stats.PendingCount = len(due)
	for _, item := range due {
		stats.PendingAmount += item.Amount()
	}

	stats.AppointmentCount = len(Upcoming(appointments, today))

	return stats
}
