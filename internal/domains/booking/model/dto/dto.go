package dto

import (
	"time"

	"innkeep/internal/domains/booking/model"
	guestDto "innkeep/internal/domains/guest/model/dto"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	GuestID      string                        `json:"guest_id"       validate:"omitempty,uuid"`
	Guest        *guestDto.CreateGuestRequest  `json:"guest"          validate:"omitempty"`
	RoomID       string                        `json:"room_id"        validate:"required"`
	CheckInDate  string                        `json:"check_in_date"  validate:"required,dateonly"`
	CheckOutDate string                        `json:"check_out_date" validate:"required,dateonly"`
	Status       string                        `json:"status"         validate:"omitempty,oneof=pending confirmed"`
	TotalAmount  *float64                      `json:"total_amount"   validate:"omitempty,gt=0"`
	PaidAmount   *float64                      `json:"paid_amount"    validate:"omitempty,gte=0"`
	Notes        string                        `json:"notes"          validate:"omitempty,max=500"`
}

func (c *CreateBookingRequest) ToModel(guestID string, start, end time.Time, totalAmount float64) model.Booking {
	status := c.Status
	if status == constant.Empty {
		status = model.StatusConfirmed
	}

	paidAmount := 0.0
	if c.PaidAmount != nil {
		paidAmount = *c.PaidAmount
	}

	return model.Booking{
		ID:           uuid.NewString(),
		GuestID:      guestID,
		RoomID:       c.RoomID,
		CheckInDate:  start,
		CheckOutDate: end,
		Status:       status,
		TotalAmount:  totalAmount,
		PaidAmount:   paidAmount,
		Notes:        c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

type UpdateBookingRequest struct {
	TotalAmount *float64 `db:"total_amount" json:"total_amount" validate:"omitempty,gt=0"`
	PaidAmount  *float64 `db:"paid_amount"  json:"paid_amount"  validate:"omitempty,gte=0"`
	Notes       string   `db:"notes"        json:"notes"        validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID             string  `json:"id"`
	GuestID        string  `json:"guest_id"`
	GuestName      string  `json:"guest_name"`
	GuestPhone     string  `json:"guest_phone,omitempty"`
	RoomID         string  `json:"room_id"`
	RoomNumber     string  `json:"room_number"`
	CheckInDate    string  `json:"check_in_date"`
	CheckOutDate   string  `json:"check_out_date"`
	ActualCheckIn  string  `json:"actual_check_in,omitempty"`
	ActualCheckOut string  `json:"actual_check_out,omitempty"`
	Status         string  `json:"status"`
	Nights         int     `json:"nights"`
	TotalAmount    float64 `json:"total_amount"`
	PaidAmount     float64 `json:"paid_amount"`
	Notes          string  `json:"notes,omitempty"`
	gDto.Metadata
}

func (b *BookingResponse) FromModel(model model.Booking) {
	b.ID = model.ID
	b.GuestID = model.GuestID
	b.GuestName = model.GuestName
	b.GuestPhone = model.GuestPhone
	b.RoomID = model.RoomID
	b.RoomNumber = model.RoomNumber
	b.CheckInDate = timezone.DateOnly(model.CheckInDate)
	b.CheckOutDate = timezone.DateOnly(model.CheckOutDate)
	b.Status = model.Status
	b.Nights = model.Nights()
	b.TotalAmount = model.TotalAmount
	b.PaidAmount = model.PaidAmount
	b.Notes = model.Notes

	if model.ActualCheckIn != nil {
		b.ActualCheckIn = timezone.Format(*model.ActualCheckIn, constant.DateFormat)
	}

	if model.ActualCheckOut != nil {
		b.ActualCheckOut = timezone.Format(*model.ActualCheckOut, constant.DateFormat)
	}

	b.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (b *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	b.TotalData = totalData
	b.TotalPage = shared.CalculateTotalPage(totalData, limit)

	b.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		b.Bookings[i].FromModel(mod)
	}
}
