package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carwash-backend/config"
	"carwash-backend/models"
	"carwash-backend/routes"
	"carwash-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Employee{},
		&models.LineItem{},
		&models.Commission{},
		&models.Transaction{},
		&models.PendingService{},
		&models.Appointment{},
		&models.AppointmentReminder{},
		&models.ReminderLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: 1,
		AllowedOrigins: []string{"http://localhost:3000"},
		ReminderLead:   time.Hour,
	}
	return routes.SetupRouter(cfg, db), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":        "owner@wash.test",
		"password":     "password123",
		"businessName": "Test Wash",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got %d, body %s", w.Code, w.Body.String())
	}

	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func createService(t *testing.T, r *gin.Engine, token string, price, rate float64) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/services", token, map[string]interface{}{
		"name":           "Full Wash",
		"price":          price,
		"commissionRate": rate,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create service: got %d, body %s", w.Code, w.Body.String())
	}
	id, _ := decode(t, w)["ID"].(string)
	if id == "" {
		t.Fatal("create service returned no ID")
	}
	return id
}

func createEmployee(t *testing.T, r *gin.Engine, token, name string, rate float64) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/employees", token, map[string]interface{}{
		"name":                  name,
		"defaultCommissionRate": rate,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create employee: got %d, body %s", w.Code, w.Body.String())
	}
	id, _ := decode(t, w)["ID"].(string)
	if id == "" {
		t.Fatal("create employee returned no ID")
	}
	return id
}

func TestTransactionCommissionWorkflow(t *testing.T) {
	r, _ := setupRouter(t)
	token := registerAndLogin(t, r)

	serviceID := createService(t, r, token, 10000, 20)
	emp1 := createEmployee(t, r, token, "Bat", 10)
	emp2 := createEmployee(t, r, token, "Dorj", 30)

	w := doJSON(t, r, http.MethodPost, "/api/transactions", token, map[string]interface{}{
		"licensePlate":  "ABC 123",
		"items":         []map[string]interface{}{{"serviceId": serviceID, "quantity": 1}},
		"employeeIds":   []string{emp1, emp2},
		"paymentMethod": "cash",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create transaction: got %d, body %s", w.Code, w.Body.String())
	}

	body := decode(t, w)
	if total, _ := body["TotalAmount"].(float64); total != 10000 {
		t.Errorf("TotalAmount = %v, want 10000", body["TotalAmount"])
	}

	commissions, _ := body["Commissions"].([]interface{})
	if len(commissions) != 2 {
		t.Fatalf("got %d commissions, want 2", len(commissions))
	}

	// Pool 2000, split by default rates 10 and 30.
	amounts := map[string]float64{}
	for _, raw := range commissions {
		cm := raw.(map[string]interface{})
		amounts[cm["EmployeeName"].(string)] = cm["Amount"].(float64)
		if paid, _ := cm["IsPaid"].(bool); paid {
			t.Error("new commission should be unpaid")
		}
	}
	if amounts["Bat"] != 500 {
		t.Errorf("Bat commission = %v, want 500", amounts["Bat"])
	}
	if amounts["Dorj"] != 1500 {
		t.Errorf("Dorj commission = %v, want 1500", amounts["Dorj"])
	}
}

func TestPlateConflictRejectsSecondRecord(t *testing.T) {
	r, _ := setupRouter(t)
	token := registerAndLogin(t, r)

	serviceID := createService(t, r, token, 5000, 10)
	emp := createEmployee(t, r, token, "Bat", 20)

	payload := map[string]interface{}{
		"licensePlate":  "XYZ 777",
		"items":         []map[string]interface{}{{"serviceId": serviceID, "quantity": 1}},
		"employeeIds":   []string{emp},
		"paymentMethod": "card",
	}

	if w := doJSON(t, r, http.MethodPost, "/api/transactions", token, payload); w.Code != http.StatusCreated {
		t.Fatalf("first transaction: got %d, body %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodPost, "/api/transactions", token, payload); w.Code != http.StatusConflict {
		t.Fatalf("second transaction: got %d, want 409; body %s", w.Code, w.Body.String())
	}

	// Normalization: lowercase with extra spacing is the same plate.
	payload["licensePlate"] = "  xyz 777 "
	if w := doJSON(t, r, http.MethodPost, "/api/pending", token, payload); w.Code != http.StatusConflict {
		t.Fatalf("pending with same plate: got %d, want 409; body %s", w.Code, w.Body.String())
	}

	check := doJSON(t, r, http.MethodGet, "/api/plate-check?plate=XYZ+777", token, nil)
	if check.Code != http.StatusOK {
		t.Fatalf("plate-check: got %d", check.Code)
	}
	if available, _ := decode(t, check)["available"].(bool); available {
		t.Error("plate-check reports available for an occupied plate")
	}
}

func TestPendingCompleteMovesToTransactions(t *testing.T) {
	r, _ := setupRouter(t)
	token := registerAndLogin(t, r)

	serviceID := createService(t, r, token, 8000, 25)
	emp := createEmployee(t, r, token, "Bat", 40)

	w := doJSON(t, r, http.MethodPost, "/api/pending", token, map[string]interface{}{
		"licensePlate": "PEN 001",
		"items":        []map[string]interface{}{{"serviceId": serviceID, "quantity": 1}},
		"employeeIds":  []string{emp},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create pending: got %d, body %s", w.Code, w.Body.String())
	}
	pendingID, _ := decode(t, w)["ID"].(string)
	if pendingID == "" {
		t.Fatal("create pending returned no ID")
	}

	w = doJSON(t, r, http.MethodPost, "/api/pending/"+pendingID+"/complete", token, map[string]interface{}{
		"paymentMethod": "transfer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("complete pending: got %d, body %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	if total, _ := created["TotalAmount"].(float64); total != 8000 {
		t.Errorf("converted TotalAmount = %v, want 8000", created["TotalAmount"])
	}

	// The pending record is gone.
	list := doJSON(t, r, http.MethodGet, "/api/pending", token, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("list pending: got %d", list.Code)
	}
	var remaining []interface{}
	if err := json.Unmarshal(list.Body.Bytes(), &remaining); err != nil {
		t.Fatalf("decode pending list: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("pending list has %d entries after completion, want 0", len(remaining))
	}

	// The dashboard counts it among today's completed washes.
	dash := doJSON(t, r, http.MethodGet, "/api/dashboard", token, nil)
	if dash.Code != http.StatusOK {
		t.Fatalf("dashboard: got %d, body %s", dash.Code, dash.Body.String())
	}
	dashBody := decode(t, dash)
	stats, _ := dashBody["stats"].(map[string]interface{})
	if stats == nil {
		t.Fatal("dashboard missing stats")
	}
	if income, _ := stats["totalIncome"].(float64); income != 8000 {
		t.Errorf("totalIncome = %v, want 8000", stats["totalIncome"])
	}
	completed, _ := dashBody["todayCompleted"].([]interface{})
	if len(completed) != 1 {
		t.Errorf("todayCompleted has %d entries, want 1", len(completed))
	}
}

func TestAppointmentStatusTransitions(t *testing.T) {
	r, _ := setupRouter(t)
	token := registerAndLogin(t, r)

	serviceID := createService(t, r, token, 6000, 15)
	emp := createEmployee(t, r, token, "Bat", 50)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", token, map[string]interface{}{
		"licensePlate":    "APP 555",
		"customerName":    "Saruul",
		"customerPhone":   "+97699112233",
		"items":           []map[string]interface{}{{"serviceId": serviceID, "quantity": 1}},
		"employeeIds":     []string{emp},
		"appointmentDate": "2030-05-20",
		"appointmentTime": "14:30",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create appointment: got %d, body %s", w.Code, w.Body.String())
	}
	apptID, _ := decode(t, w)["ID"].(string)

	// scheduled -> confirmed is legal.
	w = doJSON(t, r, http.MethodPatch, "/api/appointments/"+apptID+"/status", token,
		map[string]interface{}{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: got %d, body %s", w.Code, w.Body.String())
	}

	// Completion must go through the payment endpoint.
	w = doJSON(t, r, http.MethodPatch, "/api/appointments/"+apptID+"/status", token,
		map[string]interface{}{"status": "completed"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("complete via status: got %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/appointments/"+apptID+"/complete", token,
		map[string]interface{}{"paymentMethod": "cash"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete: got %d, body %s", w.Code, w.Body.String())
	}

	// Completed is terminal.
	w = doJSON(t, r, http.MethodPatch, "/api/appointments/"+apptID+"/status", token,
		map[string]interface{}{"status": "cancelled"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("cancel after complete: got %d, want 400", w.Code)
	}

	// The appointment record survives completion.
	get := doJSON(t, r, http.MethodGet, "/api/appointments/"+apptID, token, nil)
	if get.Code != http.StatusOK {
		t.Fatalf("get appointment: got %d", get.Code)
	}
	if status, _ := decode(t, get)["Status"].(string); status != "completed" {
		t.Errorf("appointment status = %q, want completed", status)
	}
}

// createNearAppointment books an appointment inside the one-hour reminder
// window so a sweep will pick it up.
func createNearAppointment(t *testing.T, r *gin.Engine, token, serviceID, emp string) string {
	t.Helper()

	start := time.Now().Add(30 * time.Minute)
	w := doJSON(t, r, http.MethodPost, "/api/appointments", token, map[string]interface{}{
		"licensePlate":    "REM 100",
		"customerName":    "Saruul",
		"customerPhone":   "+97699112233",
		"items":           []map[string]interface{}{{"serviceId": serviceID, "quantity": 1}},
		"employeeIds":     []string{emp},
		"appointmentDate": start.Format("2006-01-02"),
		"appointmentTime": start.Format("15:04"),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create appointment: got %d, body %s", w.Code, w.Body.String())
	}
	id, _ := decode(t, w)["ID"].(string)
	if id == "" {
		t.Fatal("create appointment returned no ID")
	}
	return id
}

func TestAppointmentDeleteRemovesReminder(t *testing.T) {
	r, db := setupRouter(t)
	token := registerAndLogin(t, r)

	serviceID := createService(t, r, token, 6000, 15)
	emp := createEmployee(t, r, token, "Bat", 50)
	apptID := createNearAppointment(t, r, token, serviceID, emp)

	services.NewReminderService(db, config.Config{ReminderLead: time.Hour}).Sweep()

	feed := doJSON(t, r, http.MethodGet, "/api/reminders", token, nil)
	if feed.Code != http.StatusOK {
		t.Fatalf("reminders: got %d", feed.Code)
	}
	var active []interface{}
	if err := json.Unmarshal(feed.Body.Bytes(), &active); err != nil {
		t.Fatalf("decode reminders: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("got %d active reminders after sweep, want 1", len(active))
	}

	if w := doJSON(t, r, http.MethodDelete, "/api/appointments/"+apptID, token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete appointment: got %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&models.AppointmentReminder{}).Count(&count).Error; err != nil {
		t.Fatalf("count reminders: %v", err)
	}
	if count != 0 {
		t.Errorf("%d reminder rows survive appointment deletion, want 0", count)
	}
}

func TestAppointmentRescheduleDropsStaleReminder(t *testing.T) {
	r, db := setupRouter(t)
	token := registerAndLogin(t, r)

	serviceID := createService(t, r, token, 6000, 15)
	emp := createEmployee(t, r, token, "Bat", 50)
	apptID := createNearAppointment(t, r, token, serviceID, emp)

	svc := services.NewReminderService(db, config.Config{ReminderLead: time.Hour})
	svc.Sweep()

	w := doJSON(t, r, http.MethodPut, "/api/appointments/"+apptID, token, map[string]interface{}{
		"appointmentDate": "2030-05-20",
		"appointmentTime": "10:00",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("reschedule: got %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if sent, _ := body["ReminderSent"].(bool); sent {
		t.Error("rescheduled appointment still marked reminder_sent")
	}

	// The reminder for the old slot is gone, and the new slot is outside
	// the window so a fresh sweep creates nothing yet.
	svc.Sweep()
	var count int64
	if err := db.Model(&models.AppointmentReminder{}).Count(&count).Error; err != nil {
		t.Fatalf("count reminders: %v", err)
	}
	if count != 0 {
		t.Errorf("%d reminder rows after reschedule, want 0", count)
	}
}

func TestUnauthorizedRequestsRejected(t *testing.T) {
	r, _ := setupRouter(t)

	if w := doJSON(t, r, http.MethodGet, "/api/services", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/services", "not-a-token", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d, want 401", w.Code)
	}
}
