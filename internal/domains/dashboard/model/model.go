package model

import "time"

const (
	EntityName = "dashboard"
)

// Stats is the operational snapshot shown on the dashboard. Today's figures
// cover the half-open window [DayStart, DayEnd) in hotel-local time.
type Stats struct {
	TotalRooms     int
	OccupiedRooms  int
	CheckinsToday  int
	CheckoutsToday int
	RevenueToday   float64
	DayStart       time.Time
	DayEnd         time.Time
}
