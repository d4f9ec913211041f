package dto

import (
	"innkeep/internal/domains/room/model"
	"innkeep/shared"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateRoomRequest struct {
	Number        string   `json:"number"          validate:"required,max=20"`
	Type          string   `json:"type"            validate:"required,oneof=standard deluxe suite executive"`
	Floor         int      `json:"floor"           validate:"required,min=0"`
	MaxOccupancy  int      `json:"max_occupancy"   validate:"omitempty,min=1"`
	PricePerNight float64  `json:"price_per_night" validate:"required,gt=0"`
	Amenities     []string `json:"amenities"       validate:"omitempty,dive,max=50"`
}

func (c *CreateRoomRequest) ToModel() model.Room {
	maxOccupancy := c.MaxOccupancy
	if maxOccupancy == 0 {
		maxOccupancy = 2
	}

	return model.Room{
		ID:            uuid.NewString(),
		Number:        c.Number,
		Type:          c.Type,
		Status:        model.StatusAvailable,
		Floor:         c.Floor,
		MaxOccupancy:  maxOccupancy,
		PricePerNight: c.PricePerNight,
		Amenities:     pq.StringArray(c.Amenities),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

// UpdateRoomRequest only accepts the administrative statuses. Occupied is
// owned by check-in/check-out and blocked by Block/Unblock, so neither can
// be set here.
type UpdateRoomRequest struct {
	Type          string   `db:"type"            json:"type"            validate:"omitempty,oneof=standard deluxe suite executive"`
	Status        string   `db:"status"          json:"status"          validate:"omitempty,oneof=available maintenance"`
	Floor         *int     `db:"floor"           json:"floor"           validate:"omitempty,min=0"`
	MaxOccupancy  *int     `db:"max_occupancy"   json:"max_occupancy"   validate:"omitempty,min=1"`
	PricePerNight *float64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	Amenities     []string `json:"amenities"     validate:"omitempty,dive,max=50"`
}

type BlockRoomRequest struct {
	EndDate string `json:"end_date" validate:"required,dateonly"`
	Reason  string `json:"reason"   validate:"omitempty,max=255"`
}

type RoomResponse struct {
	ID            string   `json:"id"`
	Number        string   `json:"number"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	Floor         int      `json:"floor"`
	MaxOccupancy  int      `json:"max_occupancy"`
	PricePerNight float64  `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
	BlockedUntil  string   `json:"blocked_until,omitempty"`
	BlockReason   string   `json:"block_reason,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.Type = model.Type
	r.Status = model.Status
	r.Floor = model.Floor
	r.MaxOccupancy = model.MaxOccupancy
	r.PricePerNight = model.PricePerNight
	r.Amenities = model.Amenities

	if r.Amenities == nil {
		r.Amenities = []string{}
	}

	if model.BlockedUntil != nil {
		r.BlockedUntil = timezone.DateOnly(*model.BlockedUntil)
	}

	if model.BlockReason != nil {
		r.BlockReason = *model.BlockReason
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
