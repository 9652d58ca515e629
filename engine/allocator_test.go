package engine

import (
	"math"
	"testing"

	"carwash-backend/models"

	"github.com/google/uuid"
)

func employee(name string, rate float64) models.Employee {
	return models.Employee{ID: uuid.New(), Name: name, DefaultCommissionRate: rate}
}

func item(price, rate float64) models.LineItem {
	return models.LineItem{ID: uuid.New(), ServiceID: uuid.New(), ServiceName: "wash", Price: price, CommissionRate: rate}
}

func TestAllocateTwoEmployeeSplit(t *testing.T) {
	// One item priced 10000 at a 20% service rate: pool = 2000.
	// Rates 10% and 30% split it 500 / 1500.
	a := employee("A", 10)
	b := employee("B", 30)
	items := []models.LineItem{item(10000, 20)}

	commissions := Allocate(items, []models.Employee{a, b})
	if len(commissions) != 2 {
		t.Fatalf("got %d commissions, want 2", len(commissions))
	}

	byID := map[uuid.UUID]models.Commission{}
	for _, c := range commissions {
		byID[c.EmployeeID] = c
	}
	if got := byID[a.ID].Amount; got != 500 {
		t.Errorf("A amount = %v, want 500", got)
	}
	if got := byID[b.ID].Amount; got != 1500 {
		t.Errorf("B amount = %v, want 1500", got)
	}
	if byID[a.ID].CommissionRate != 10 || byID[b.ID].CommissionRate != 30 {
		t.Error("commission rate must snapshot the employee default rate")
	}
	if byID[a.ID].IsPaid || byID[b.ID].IsPaid {
		t.Error("new commissions default to unpaid")
	}
}

func TestAllocateConservation(t *testing.T) {
	employees := []models.Employee{
		employee("A", 7), employee("B", 13), employee("C", 25),
	}
	items := []models.LineItem{
		item(15000, 20), item(8000, 35), item(2500, 0), item(999, 12.5),
	}

	commissions := Allocate(items, employees)

	var allocated float64
	for _, c := range commissions {
		if c.Amount < 0 {
			t.Fatalf("negative commission amount %v", c.Amount)
		}
		allocated += c.Amount
	}

	if pool := CommissionPool(items); math.Abs(allocated-pool) > 1e-9 {
		t.Fatalf("allocated %v, pool %v", allocated, pool)
	}
}

func TestAllocateZeroRateGuard(t *testing.T) {
	employees := []models.Employee{employee("A", 0), employee("B", 0)}
	commissions := Allocate([]models.LineItem{item(10000, 20)}, employees)
	if len(commissions) != 0 {
		t.Fatalf("zero rate sum must allocate nothing, got %d entries", len(commissions))
	}
}

func TestAllocateNoEmployees(t *testing.T) {
	if got := Allocate([]models.LineItem{item(5000, 10)}, nil); got != nil {
		t.Fatalf("no employees must allocate nothing, got %v", got)
	}
}

func TestAllocateSingleEmployeeGetsFullPool(t *testing.T) {
	// Proportional share of 1-of-1 is always 100%, whatever the rate.
	for _, rate := range []float64{1, 15, 40, 100} {
		emp := employee("solo", rate)
		items := []models.LineItem{item(12000, 25), item(3000, 10)}

		commissions := Allocate(items, []models.Employee{emp})
		if len(commissions) != 1 {
			t.Fatalf("rate %v: got %d commissions, want 1", rate, len(commissions))
		}
		if pool := CommissionPool(items); math.Abs(commissions[0].Amount-pool) > 1e-9 {
			t.Errorf("rate %v: amount %v, want full pool %v", rate, commissions[0].Amount, pool)
		}
	}
}

func TestAllocateAccumulatesAcrossItems(t *testing.T) {
	emp := employee("A", 20)
	other := employee("B", 20)
	items := []models.LineItem{item(10000, 10), item(6000, 20)}

	commissions := Allocate(items, []models.Employee{emp, other})
	if len(commissions) != 2 {
		t.Fatalf("got %d commissions, want one per employee", len(commissions))
	}
	// pools: 1000 + 1200 = 2200, even split at equal rates.
	for _, c := range commissions {
		if math.Abs(c.Amount-1100) > 1e-9 {
			t.Errorf("%s amount = %v, want 1100", c.EmployeeName, c.Amount)
		}
	}
}

func TestTotalAmount(t *testing.T) {
	items := []models.LineItem{item(1500, 10), item(2500, 0)}
	if got := TotalAmount(items); got != 4000 {
		t.Fatalf("TotalAmount = %v, want 4000", got)
	}
}
