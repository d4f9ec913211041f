package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/internal/domains/command/model"
)

func TestIntent_MissingParams(t *testing.T) {
	tests := []struct {
		name    string
		intent  model.Intent
		missing []string
	}{
		{
			name: "complete booking intent",
			intent: model.Intent{
				Action:    model.ActionBookRoom,
				Room:      "102",
				GuestName: "John Smith",
				StartDate: "2026-09-10",
				EndDate:   "2026-09-12",
			},
			missing: []string{},
		},
		{
			name:    "booking intent without details",
			intent:  model.Intent{Action: model.ActionBookRoom, Room: "102"},
			missing: []string{"guest name", "start date", "end date"},
		},
		{
			name:    "check-in needs room and guest",
			intent:  model.Intent{Action: model.ActionCheckIn},
			missing: []string{"room", "guest name"},
		},
		{
			name:    "check-out needs only room",
			intent:  model.Intent{Action: model.ActionCheckOut, Room: "108"},
			missing: []string{},
		},
		{
			name:    "block needs room and end date",
			intent:  model.Intent{Action: model.ActionBlockRoom, Room: "205"},
			missing: []string{"end date"},
		},
		{
			name:    "room status tolerates a missing room",
			intent:  model.Intent{Action: model.ActionRoomStatus},
			missing: []string{},
		},
		{
			name:    "revenue check has no required params",
			intent:  model.Intent{Action: model.ActionRevenueCheck},
			missing: []string{},
		},
		{
			name:    "occupancy check has no required params",
			intent:  model.Intent{Action: model.ActionOccupancyCheck},
			missing: []string{},
		},
		{
			name:    "unknown action has no required params",
			intent:  model.UnknownIntent(),
			missing: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, tt.intent.MissingParams())
		})
	}
}
