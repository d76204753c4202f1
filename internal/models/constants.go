package models

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"

	PaymentStatusSuccess   = "SUCCESS"
	PaymentStatusFailure   = "FAILURE"
	PaymentStatusCancelled = "CANCELLED"

	PaymentMessageType = "PAYMENT"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var ReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCancelled,
	ReservationStatusCompleted,
}

func IsReservationStatus(s string) bool {
	for _, status := range ReservationStatuses {
		if status == s {
			return true
		}
	}
	return false
}
