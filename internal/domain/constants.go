package domain

// Business validation constants
const (
	MaxNoteLength         = 500
	MaxCancelReasonLength = 500
	MaxServiceItems       = 20
	DefaultLineQuantity   = 1
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, при которых бронирование не занимает время мастера
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
