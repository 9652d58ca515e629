package engine

import (
	"strings"
	"testing"
	"time"

	"carwash-backend/models"

	"github.com/google/uuid"
)

func TestPlateConflictOrdering(t *testing.T) {
	day := time.Date(2026, 5, 10, 11, 0, 0, 0, time.Local)

	transactions := []models.Transaction{tx("1234 ABC", 100, models.PaymentCash, day)}
	pending := []models.PendingService{
		{ID: uuid.New(), LicensePlate: "1234 ABC", Date: day},
	}
	appointments := []models.Appointment{
		appt("1234 ABC", 100, models.AppointmentScheduled, day),
	}

	// All three record kinds match; the transaction wins.
	got := PlateConflict("1234 ABC", day, transactions, pending, appointments, uuid.Nil)
	if got != ConflictTransaction {
		t.Fatalf("conflict = %v, want ConflictTransaction", got)
	}
	if msg := got.Message("1234 ABC", day); !strings.Contains(msg, "completed transaction") {
		t.Fatalf("message should name the transaction conflict, got %q", msg)
	}

	// Without the transaction the pending service wins, then the appointment.
	if got := PlateConflict("1234 ABC", day, nil, pending, appointments, uuid.Nil); got != ConflictPending {
		t.Fatalf("conflict = %v, want ConflictPending", got)
	}
	if got := PlateConflict("1234 ABC", day, nil, nil, appointments, uuid.Nil); got != ConflictAppointment {
		t.Fatalf("conflict = %v, want ConflictAppointment", got)
	}
}

func TestPlateAvailableWhenNothingMatches(t *testing.T) {
	day := time.Date(2026, 5, 10, 11, 0, 0, 0, time.Local)
	transactions := []models.Transaction{tx("1234 ABC", 100, models.PaymentCash, day)}

	if !IsPlateAvailable("5678 XYZ", day, transactions, nil, nil, uuid.Nil) {
		t.Fatal("unrelated plate should be available")
	}
	// Same plate, different calendar day.
	if !IsPlateAvailable("1234 ABC", day.AddDate(0, 0, 1), transactions, nil, nil, uuid.Nil) {
		t.Fatal("same plate on another day should be available")
	}
	if ConflictNone.Message("1234 ABC", day) != "" {
		t.Fatal("no conflict must yield an empty message")
	}
}

func TestPlateConflictIgnoresCancelledAppointments(t *testing.T) {
	day := time.Date(2026, 5, 10, 11, 0, 0, 0, time.Local)
	appointments := []models.Appointment{
		appt("1234 ABC", 100, models.AppointmentCancelled, day),
	}

	if !IsPlateAvailable("1234 ABC", day, nil, nil, appointments, uuid.Nil) {
		t.Fatal("cancelled appointments must not block the plate")
	}
}

func TestPlateConflictExcludeID(t *testing.T) {
	day := time.Date(2026, 5, 10, 11, 0, 0, 0, time.Local)
	existing := tx("1234 ABC", 100, models.PaymentCash, day)

	// An edit of the record itself sees no conflict.
	if !IsPlateAvailable("1234 ABC", day, []models.Transaction{existing}, nil, nil, existing.ID) {
		t.Fatal("excludeID must ignore the record being edited")
	}
	if IsPlateAvailable("1234 ABC", day, []models.Transaction{existing}, nil, nil, uuid.Nil) {
		t.Fatal("without excludeID the plate is taken")
	}
}

func TestPlateConflictNormalizesCaseAndSpacing(t *testing.T) {
	day := time.Date(2026, 5, 10, 11, 0, 0, 0, time.Local)
	transactions := []models.Transaction{tx("1234 abc", 100, models.PaymentCash, day)}

	if IsPlateAvailable("  1234 ABC ", day, transactions, nil, nil, uuid.Nil) {
		t.Fatal("plate comparison must ignore case and surrounding spaces")
	}
}
