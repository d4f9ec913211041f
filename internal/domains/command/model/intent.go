package model

const (
	ActionBookRoom       = "book_room"
	ActionCheckIn        = "check_in"
	ActionCheckOut       = "check_out"
	ActionBlockRoom      = "block_room"
	ActionUnblockRoom    = "unblock_room"
	ActionRoomStatus     = "room_status"
	ActionRevenueCheck   = "revenue_check"
	ActionOccupancyCheck = "occupancy_check"
	ActionUnknown        = "unknown"
)

// Intent is the structured command extracted from a free-form message. Dates
// are YYYY-MM-DD, times HH:MM, all fields optional except Action.
type Intent struct {
	Action       string `json:"action"`
	Room         string `json:"room,omitempty"`
	GuestName    string `json:"guest_name,omitempty"`
	GuestPhone   string `json:"guest_phone,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	Details      string `json:"details,omitempty"`
}

// UnknownIntent is the degraded result used when interpretation fails.
func UnknownIntent() Intent {
	return Intent{Action: ActionUnknown}
}

// MissingParams lists the required fields the intent lacks for its action.
func (i Intent) MissingParams() []string {
	missing := []string{}

	require := func(value, name string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	switch i.Action {
	case ActionBookRoom:
		require(i.Room, "room")
		require(i.GuestName, "guest name")
		require(i.StartDate, "start date")
		require(i.EndDate, "end date")
	case ActionCheckIn:
		require(i.Room, "room")
		require(i.GuestName, "guest name")
	case ActionCheckOut, ActionUnblockRoom:
		require(i.Room, "room")
	case ActionBlockRoom:
		require(i.Room, "room")
		require(i.EndDate, "end date")
	}

	return missing
}
