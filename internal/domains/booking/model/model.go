package model

import (
	"math"
	"time"

	"innkeep/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldGuestID        = "guest_id"
	FieldRoomID         = "room_id"
	FieldCheckInDate    = "check_in_date"
	FieldCheckOutDate   = "check_out_date"
	FieldActualCheckIn  = "actual_check_in"
	FieldActualCheckOut = "actual_check_out"
	FieldStatus         = "status"
	FieldTotalAmount    = "total_amount"
	FieldPaidAmount     = "paid_amount"
	FieldNotes          = "notes"

	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCancelled  = "cancelled"
)

type Booking struct {
	ID             string     `db:"id"`
	GuestID        string     `db:"guest_id"`
	RoomID         string     `db:"room_id"`
	CheckInDate    time.Time  `db:"check_in_date"`
	CheckOutDate   time.Time  `db:"check_out_date"`
	ActualCheckIn  *time.Time `db:"actual_check_in"`
	ActualCheckOut *time.Time `db:"actual_check_out"`
	Status         string     `db:"status"`
	TotalAmount    float64    `db:"total_amount"`
	PaidAmount     float64    `db:"paid_amount"`
	Notes          string     `db:"notes"`
	GuestName      string     `db:"guest_name"  table:"guests" column:"name"`
	GuestPhone     string     `db:"guest_phone" table:"guests" column:"phone"`
	RoomNumber     string     `db:"room_number" table:"rooms"  column:"number"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN guests ON guests.id = bookings.guest_id JOIN rooms ON rooms.id = bookings.room_id"
}

// Nights is the length of the stay in whole nights, never less than one.
// Rounded up so a window spanning a short DST day still counts every
// calendar night.
func (b *Booking) Nights() int {
	nights := int(math.Ceil(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24))
	if nights < 1 {
		nights = 1
	}

	return nights
}
