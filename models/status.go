package models

// AppointmentStatus is the single source of truth for appointment lifecycle
// states and their legal transitions. Nothing else in the codebase matches
// on raw status strings.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes scheduled→confirmed→completed, with cancellation
// allowed from scheduled or confirmed. Completed and cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentScheduled:
		return next == AppointmentConfirmed || next == AppointmentCompleted || next == AppointmentCancelled
	case AppointmentConfirmed:
		return next == AppointmentCompleted || next == AppointmentCancelled
	default:
		return false
	}
}

// Active reports whether the appointment still occupies its slot: completed
// and cancelled appointments no longer block a license plate.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentScheduled || s == AppointmentConfirmed
}

// PaymentMethod is how a completed transaction was settled.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard:
		return true
	}
	return false
}

// TransactionCompleted is the only status a stored transaction carries;
// in-progress work lives in PendingService instead.
const TransactionCompleted = "completed"
