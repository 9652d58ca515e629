package services_test

import (
	"fmt"
	"testing"
	"time"

	"carwash-backend/config"
	"carwash-backend/models"
	"carwash-backend/services"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Appointment{},
		&models.AppointmentReminder{},
		&models.ReminderLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAppointment(t *testing.T, db *gorm.DB, userID uuid.UUID, status models.AppointmentStatus, start time.Time) models.Appointment {
	t.Helper()

	appointment := models.Appointment{
		UserID:          userID,
		LicensePlate:    "SWP " + start.Format("1504"),
		CustomerName:    "Saruul",
		CustomerPhone:   "+97699112233",
		TotalAmount:     5000,
		AppointmentDate: start,
		AppointmentTime: start.Format("15:04"),
		Status:          status,
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return appointment
}

func sameInstant(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < time.Second
}

func TestSweepCreatesReminderAtLead(t *testing.T) {
	db := setupDB(t)
	cfg := config.Config{ReminderLead: time.Hour}
	svc := services.NewReminderService(db, cfg)

	userID := uuid.New()
	inWindow := seedAppointment(t, db, userID, models.AppointmentScheduled, time.Now().Add(30*time.Minute))
	outOfWindow := seedAppointment(t, db, userID, models.AppointmentScheduled, time.Now().Add(3*time.Hour))
	cancelled := seedAppointment(t, db, userID, models.AppointmentCancelled, time.Now().Add(20*time.Minute))

	svc.Sweep()

	var reminders []models.AppointmentReminder
	if err := db.Find(&reminders).Error; err != nil {
		t.Fatalf("load reminders: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want 1", len(reminders))
	}

	r := reminders[0]
	if r.AppointmentID != inWindow.ID {
		t.Errorf("reminder is for appointment %s, want %s", r.AppointmentID, inWindow.ID)
	}
	if want := inWindow.AppointmentDate.Add(-time.Hour); !sameInstant(r.ReminderTime, want) {
		t.Errorf("ReminderTime = %v, want %v", r.ReminderTime, want)
	}
	if r.CustomerName != "Saruul" || r.LicensePlate != inWindow.LicensePlate {
		t.Errorf("reminder did not copy appointment details: %+v", r)
	}

	var refreshed models.Appointment
	if err := db.First(&refreshed, "id = ?", inWindow.ID).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if !refreshed.ReminderSent {
		t.Error("in-window appointment not marked reminder_sent")
	}

	for _, id := range []uuid.UUID{outOfWindow.ID, cancelled.ID} {
		if err := db.First(&refreshed, "id = ?", id).Error; err != nil {
			t.Fatalf("reload appointment: %v", err)
		}
		if refreshed.ReminderSent {
			t.Errorf("appointment %s should not have been reminded", id)
		}
	}
}

func TestSweepDoesNotDuplicate(t *testing.T) {
	db := setupDB(t)
	svc := services.NewReminderService(db, config.Config{ReminderLead: time.Hour})

	userID := uuid.New()
	seedAppointment(t, db, userID, models.AppointmentScheduled, time.Now().Add(30*time.Minute))

	svc.Sweep()
	svc.Sweep()

	var count int64
	if err := db.Model(&models.AppointmentReminder{}).Count(&count).Error; err != nil {
		t.Fatalf("count reminders: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d reminders after two sweeps, want 1", count)
	}
}

func TestSweepIncludesConfirmedAppointments(t *testing.T) {
	db := setupDB(t)
	svc := services.NewReminderService(db, config.Config{ReminderLead: time.Hour})

	userID := uuid.New()
	confirmed := seedAppointment(t, db, userID, models.AppointmentConfirmed, time.Now().Add(45*time.Minute))

	svc.Sweep()

	var count int64
	if err := db.Model(&models.AppointmentReminder{}).
		Where("appointment_id = ?", confirmed.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count reminders: %v", err)
	}
	if count != 1 {
		t.Fatalf("confirmed in-window appointment got %d reminders, want 1", count)
	}
}
