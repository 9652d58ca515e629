package engine

import (
	"fmt"
	"strings"
	"time"

	"carwash-backend/models"
	"carwash-backend/utils"

	"github.com/google/uuid"
)

// Conflict names which record kind already claims a plate on a date.
type Conflict int

const (
	ConflictNone Conflict = iota
	ConflictTransaction
	ConflictPending
	ConflictAppointment
)

// PlateConflict checks whether a plate is already active on the given
// calendar date, in a fixed order: completed transactions, then pending
// services, then non-cancelled appointments. The first match wins and
// decides the message category. excludeID lets an edit ignore its own
// record; pass uuid.Nil otherwise.
func PlateConflict(
	plate string,
	date time.Time,
	transactions []models.Transaction,
	pending []models.PendingService,
	appointments []models.Appointment,
	excludeID uuid.UUID,
) Conflict {
	plate = utils.NormalizePlate(plate)

	for _, t := range transactions {
		if t.ID == excludeID {
			continue
		}
		if samePlate(t.LicensePlate, plate) && utils.SameDay(t.Date, date) {
			return ConflictTransaction
		}
	}

	for _, p := range pending {
		if p.ID == excludeID {
			continue
		}
		if samePlate(p.LicensePlate, plate) && utils.SameDay(p.Date, date) {
			return ConflictPending
		}
	}

	for _, a := range appointments {
		if a.ID == excludeID {
			continue
		}
		if a.Status == models.AppointmentCancelled {
			continue
		}
		if samePlate(a.LicensePlate, plate) && utils.SameDay(a.AppointmentDate, date) {
			return ConflictAppointment
		}
	}

	return ConflictNone
}

// IsPlateAvailable is true only when none of the three checks match.
func IsPlateAvailable(
	plate string,
	date time.Time,
	transactions []models.Transaction,
	pending []models.PendingService,
	appointments []models.Appointment,
	excludeID uuid.UUID,
) bool {
	return PlateConflict(plate, date, transactions, pending, appointments, excludeID) == ConflictNone
}

// Message renders the operator-facing conflict text, empty when there is
// no conflict.
func (c Conflict) Message(plate string, date time.Time) string {
	day := utils.DayKey(date)
	switch c {
	case ConflictTransaction:
		return fmt.Sprintf("Vehicle %s already has a completed transaction on %s.", plate, day)
	case ConflictPending:
		return fmt.Sprintf("Vehicle %s already has a pending service on %s.", plate, day)
	case ConflictAppointment:
		return fmt.Sprintf("Vehicle %s already has an appointment on %s.", plate, day)
	}
	return ""
}

func samePlate(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), b)
}
