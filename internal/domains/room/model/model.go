package model

import (
	"innkeep/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldNumber        = "number"
	FieldType          = "type"
	FieldStatus        = "status"
	FieldFloor         = "floor"
	FieldMaxOccupancy  = "max_occupancy"
	FieldPricePerNight = "price_per_night"
	FieldAmenities     = "amenities"
	FieldBlockedUntil  = "blocked_until"
	FieldBlockReason   = "block_reason"

	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
	StatusBlocked     = "blocked"

	TypeStandard  = "standard"
	TypeDeluxe    = "deluxe"
	TypeSuite     = "suite"
	TypeExecutive = "executive"
)

type Room struct {
	ID            string         `db:"id"`
	Number        string         `db:"number"`
	Type          string         `db:"type"`
	Status        string         `db:"status"`
	Floor         int            `db:"floor"`
	MaxOccupancy  int            `db:"max_occupancy"`
	PricePerNight float64        `db:"price_per_night"`
	Amenities     pq.StringArray `db:"amenities"`
	BlockedUntil  *time.Time     `db:"blocked_until"`
	BlockReason   *string        `db:"block_reason"`
	model.Metadata
}
