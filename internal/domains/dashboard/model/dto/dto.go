package dto

import (
	"math"

	"innkeep/internal/domains/dashboard/model"
	"innkeep/shared/timezone"
)

type StatsResponse struct {
	Date           string  `json:"date"`
	TotalRooms     int     `json:"total_rooms"`
	OccupiedRooms  int     `json:"occupied_rooms"`
	AvailableRooms int     `json:"available_rooms"`
	CheckinsToday  int     `json:"checkins_today"`
	CheckoutsToday int     `json:"checkouts_today"`
	RevenueToday   float64 `json:"revenue_today"`
	OccupancyRate  float64 `json:"occupancy_rate"`
}

func (s *StatsResponse) FromModel(stats model.Stats) {
	s.Date = timezone.DateOnly(stats.DayStart)
	s.TotalRooms = stats.TotalRooms
	s.OccupiedRooms = stats.OccupiedRooms
	s.AvailableRooms = stats.TotalRooms - stats.OccupiedRooms
	s.CheckinsToday = stats.CheckinsToday
	s.CheckoutsToday = stats.CheckoutsToday
	s.RevenueToday = stats.RevenueToday

	if stats.TotalRooms > 0 {
		rate := float64(stats.OccupiedRooms) / float64(stats.TotalRooms) * 100

		s.OccupancyRate = math.Round(rate*10) / 10
	}
}
