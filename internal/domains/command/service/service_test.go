package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	openaiMocks "innkeep/infras/openai/mocks"
	otelMocks "innkeep/infras/otel/mocks"
	bookingDto "innkeep/internal/domains/booking/model/dto"
	bookingMocks "innkeep/internal/domains/booking/service/mocks"
	commandMocks "innkeep/internal/domains/command/mocks"
	"innkeep/internal/domains/command/model"
	"innkeep/internal/domains/command/model/dto"
	"innkeep/internal/domains/command/service"
	dashboardDto "innkeep/internal/domains/dashboard/model/dto"
	dashboardMocks "innkeep/internal/domains/dashboard/service/mocks"
	guestDto "innkeep/internal/domains/guest/model/dto"
	guestMocks "innkeep/internal/domains/guest/service/mocks"
	roomDto "innkeep/internal/domains/room/model/dto"
	roomMocks "innkeep/internal/domains/room/service/mocks"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
)

type fixture struct {
	svc         service.Command
	repo        *commandMocks.MockCommand
	interpreter *openaiMocks.MockInterpreter
	rooms       *roomMocks.MockRoom
	guests      *guestMocks.MockGuest
	bookings    *bookingMocks.MockBooking
	dashboard   *dashboardMocks.MockDashboard
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        commandMocks.NewMockCommand(ctrl),
		interpreter: openaiMocks.NewMockInterpreter(ctrl),
		rooms:       roomMocks.NewMockRoom(ctrl),
		guests:      guestMocks.NewMockGuest(ctrl),
		bookings:    bookingMocks.NewMockBooking(ctrl),
		dashboard:   dashboardMocks.NewMockDashboard(ctrl),
	}

	f.svc = service.New(
		f.repo, f.interpreter, f.rooms, f.guests, f.bookings, f.dashboard,
		&config.Config{}, otelMocks.NewOtel(),
	)

	return f
}

func (f fixture) expectIntent(message string, intent model.Intent) {
	f.interpreter.EXPECT().Interpret(gomock.Any(), message).Return(intent, nil)
}

// expectOutcome wires the persist-then-update audit trail and captures the
// final command status.
func (f fixture) expectOutcome(t *testing.T, status *string) {
	t.Helper()

	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd model.Command) error {
			assert.Equal(t, model.StatusPending, cmd.Status)
			assert.NotEmpty(t, cmd.ParsedAction)

			return nil
		})

	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, update map[string]any, _ gDto.FilterGroup) error {
			*status, _ = update[model.FieldStatus].(string)
			assert.NotNil(t, update[model.FieldProcessedAt])

			return nil
		})
}

func webhook(body string) dto.WebhookRequest {
	return dto.WebhookRequest{From: "whatsapp:+14155551234", Body: body}
}

func TestCommandService_Resolve_BookRoom(t *testing.T) {
	bookIntent := model.Intent{
		Action:    model.ActionBookRoom,
		Room:      "102",
		GuestName: "devansh",
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
	}

	t.Run("books for a new guest", func(t *testing.T) {
		f := newFixture(t)

		intent := bookIntent
		intent.GuestPhone = "+14155551234"
		intent.CheckInTime = "15:00"

		f.expectIntent("Book room 102 for devansh", intent)

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "102").
			Return(roomDto.RoomResponse{ID: "room-1", Number: "102"}, nil)

		f.guests.EXPECT().
			FindByName(gomock.Any(), "devansh").
			Return(guestDto.GuestResponse{}, failure.NotFound("guest devansh not found"))

		f.bookings.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req bookingDto.CreateBookingRequest) (bookingDto.BookingResponse, error) {
				assert.Equal(t, "room-1", req.RoomID)
				assert.Empty(t, req.GuestID)
				assert.Equal(t, "devansh", req.Guest.Name)
				assert.Equal(t, "+14155551234", req.Guest.Phone)
				assert.Equal(t, "Booked via WhatsApp - Check-in: 15:00", req.Notes)

				return bookingDto.BookingResponse{TotalAmount: 240, Nights: 2}, nil
			})

		reply, err := f.svc.Resolve(context.Background(), webhook("Book room 102 for devansh"))

		assert.NoError(t, err)
		assert.Equal(t, "Room 102 booked for devansh from 2026-09-10 to 2026-09-12. Total: 240.00 (2 nights). Booking confirmed!", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})

	t.Run("reuses an existing guest", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Book room 102 for devansh", bookIntent)

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "102").
			Return(roomDto.RoomResponse{ID: "room-1", Number: "102"}, nil)

		f.guests.EXPECT().
			FindByName(gomock.Any(), "devansh").
			Return(guestDto.GuestResponse{ID: "guest-7", Name: "devansh"}, nil)

		f.bookings.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req bookingDto.CreateBookingRequest) (bookingDto.BookingResponse, error) {
				assert.Equal(t, "guest-7", req.GuestID)
				assert.Nil(t, req.Guest)

				return bookingDto.BookingResponse{TotalAmount: 240, Nights: 2}, nil
			})

		_, err := f.svc.Resolve(context.Background(), webhook("Book room 102 for devansh"))

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, status)
	})

	t.Run("reports unavailable dates", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Book room 102 for devansh", bookIntent)

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "102").
			Return(roomDto.RoomResponse{ID: "room-1", Number: "102"}, nil)

		f.guests.EXPECT().
			FindByName(gomock.Any(), "devansh").
			Return(guestDto.GuestResponse{ID: "guest-7"}, nil)

		f.bookings.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(bookingDto.BookingResponse{}, failure.Conflict("room already booked for the requested dates"))

		reply, err := f.svc.Resolve(context.Background(), webhook("Book room 102 for devansh"))

		assert.NoError(t, err)
		assert.Equal(t, "Room 102 is not available from 2026-09-10 to 2026-09-12", reply)
		assert.Equal(t, model.StatusFailed, status)
	})

	t.Run("rejects incomplete intent before touching services", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Book a room", model.Intent{Action: model.ActionBookRoom, Room: "102"})

		var status string
		f.expectOutcome(t, &status)

		reply, err := f.svc.Resolve(context.Background(), webhook("Book a room"))

		assert.NoError(t, err)
		assert.Equal(t, "Please specify guest name, start date, end date", reply)
		assert.Equal(t, model.StatusFailed, status)
	})
}

func TestCommandService_Resolve_CheckIn(t *testing.T) {
	checkInIntent := model.Intent{Action: model.ActionCheckIn, Room: "108", GuestName: "john smith"}

	t.Run("matches guest name case-insensitively", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Check in John Smith to room 108", checkInIntent)

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "108").
			Return(roomDto.RoomResponse{ID: "room-8", Number: "108"}, nil)

		f.bookings.EXPECT().
			FindByRoom(gomock.Any(), "room-8", []string{"confirmed"}).
			Return([]bookingDto.BookingResponse{
				{ID: "booking-1", GuestName: "Jane Doe"},
				{ID: "booking-2", GuestName: "John Smith"},
			}, nil)

		f.bookings.EXPECT().
			CheckIn(gomock.Any(), "booking-2").
			Return(bookingDto.BookingResponse{ID: "booking-2"}, nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("Check in John Smith to room 108"))

		assert.NoError(t, err)
		assert.Equal(t, "John Smith has been checked into room 108. Welcome to the hotel!", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})

	t.Run("fails when no confirmed booking matches", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Check in John Smith to room 108", checkInIntent)

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "108").
			Return(roomDto.RoomResponse{ID: "room-8", Number: "108"}, nil)

		f.bookings.EXPECT().
			FindByRoom(gomock.Any(), "room-8", []string{"confirmed"}).
			Return([]bookingDto.BookingResponse{{ID: "booking-1", GuestName: "Jane Doe"}}, nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("Check in John Smith to room 108"))

		assert.NoError(t, err)
		assert.Equal(t, "No confirmed booking found for john smith in room 108", reply)
		assert.Equal(t, model.StatusFailed, status)
	})

	t.Run("fails for unknown room", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Check in John Smith to room 999", model.Intent{Action: model.ActionCheckIn, Room: "999", GuestName: "John Smith"})

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "999").
			Return(roomDto.RoomResponse{}, failure.NotFound("room not found"))

		reply, err := f.svc.Resolve(context.Background(), webhook("Check in John Smith to room 999"))

		assert.NoError(t, err)
		assert.Equal(t, "Could not find room 999", reply)
		assert.Equal(t, model.StatusFailed, status)
	})
}

func TestCommandService_Resolve_CheckOut(t *testing.T) {
	checkOutIntent := model.Intent{Action: model.ActionCheckOut, Room: "108"}

	t.Run("checks out the occupying booking", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Check out room 108", checkOutIntent)

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "108").
			Return(roomDto.RoomResponse{ID: "room-8", Number: "108"}, nil)

		f.bookings.EXPECT().
			FindByRoom(gomock.Any(), "room-8", []string{"checked_in"}).
			Return([]bookingDto.BookingResponse{{ID: "booking-2", GuestName: "John Smith"}}, nil)

		f.bookings.EXPECT().
			CheckOut(gomock.Any(), "booking-2").
			Return(bookingDto.BookingResponse{ID: "booking-2"}, nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("Check out room 108"))

		assert.NoError(t, err)
		assert.Equal(t, "Guest has been checked out from room 108. Thank you for staying with us!", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})

	t.Run("fails when room has no checked-in guest", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Check out room 108", checkOutIntent)

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "108").
			Return(roomDto.RoomResponse{ID: "room-8", Number: "108"}, nil)

		f.bookings.EXPECT().
			FindByRoom(gomock.Any(), "room-8", []string{"checked_in"}).
			Return([]bookingDto.BookingResponse{}, nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("Check out room 108"))

		assert.NoError(t, err)
		assert.Equal(t, "No checked-in guest found in room 108", reply)
		assert.Equal(t, model.StatusFailed, status)
	})
}

func TestCommandService_Resolve_BlockUnblock(t *testing.T) {
	t.Run("blocks a room with default reason", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Block room 205 until July 17", model.Intent{
			Action:  model.ActionBlockRoom,
			Room:    "205",
			EndDate: "2026-07-17",
		})

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "205").
			Return(roomDto.RoomResponse{ID: "room-5", Number: "205"}, nil)

		f.rooms.EXPECT().
			Block(gomock.Any(), "room-5", roomDto.BlockRoomRequest{EndDate: "2026-07-17", Reason: "Blocked via WhatsApp"}).
			Return(nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("Block room 205 until July 17"))

		assert.NoError(t, err)
		assert.Equal(t, "Room 205 has been blocked until 2026-07-17", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})

	t.Run("surfaces block rule violations", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Block room 205", model.Intent{
			Action:  model.ActionBlockRoom,
			Room:    "205",
			EndDate: "2026-07-17",
		})

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "205").
			Return(roomDto.RoomResponse{ID: "room-5", Number: "205"}, nil)

		f.rooms.EXPECT().
			Block(gomock.Any(), "room-5", gomock.Any()).
			Return(failure.Conflict("room is occupied and cannot be blocked"))

		reply, err := f.svc.Resolve(context.Background(), webhook("Block room 205"))

		assert.NoError(t, err)
		assert.Equal(t, "room is occupied and cannot be blocked", reply)
		assert.Equal(t, model.StatusFailed, status)
	})

	t.Run("unblocks a room", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Unblock room 205", model.Intent{Action: model.ActionUnblockRoom, Room: "205"})

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "205").
			Return(roomDto.RoomResponse{ID: "room-5", Number: "205"}, nil)

		f.rooms.EXPECT().Unblock(gomock.Any(), "room-5").Return(nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("Unblock room 205"))

		assert.NoError(t, err)
		assert.Equal(t, "Room 205 has been unblocked", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})
}

func TestCommandService_Resolve_RoomStatus(t *testing.T) {
	t.Run("reports current status", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("What is room 203 status?", model.Intent{Action: model.ActionRoomStatus, Room: "203"})

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "203").
			Return(roomDto.RoomResponse{ID: "room-3", Number: "203", Status: "occupied"}, nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("What is room 203 status?"))

		assert.NoError(t, err)
		assert.Equal(t, "Room 203 status: OCCUPIED", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})

	t.Run("status query without a room replies with help", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("What is the room status?", model.Intent{Action: model.ActionRoomStatus})

		var status string
		f.expectOutcome(t, &status)

		reply, err := f.svc.Resolve(context.Background(), webhook("What is the room status?"))

		assert.NoError(t, err)
		assert.Contains(t, reply, "Supported actions")
		assert.Equal(t, model.StatusProcessed, status)
	})

	t.Run("maintenance complete returns room to service", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Room 203 maintenance complete", model.Intent{
			Action:  model.ActionRoomStatus,
			Room:    "203",
			Details: "maintenance complete",
		})

		var status string
		f.expectOutcome(t, &status)

		f.rooms.EXPECT().
			GetByNumber(gomock.Any(), "203").
			Return(roomDto.RoomResponse{ID: "room-3", Number: "203", Status: "maintenance"}, nil)

		f.rooms.EXPECT().
			Update(gomock.Any(), roomDto.UpdateRoomRequest{Status: "available"}, "room-3").
			Return(nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("Room 203 maintenance complete"))

		assert.NoError(t, err)
		assert.Equal(t, "Room 203 status: MAINTENANCE. Room status updated to AVAILABLE", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})
}

func TestCommandService_Resolve_Reports(t *testing.T) {
	t.Run("revenue check", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Check revenue today", model.Intent{Action: model.ActionRevenueCheck, Details: "today"})

		var status string
		f.expectOutcome(t, &status)

		f.dashboard.EXPECT().
			GetStats(gomock.Any()).
			Return(dashboardDto.StatsResponse{RevenueToday: 840, TotalRooms: 12, OccupiedRooms: 6}, nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("Check revenue today"))

		assert.NoError(t, err)
		assert.Equal(t, "Revenue today: 840.00. Total rooms: 12. Occupied: 6", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})

	t.Run("occupancy check", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("What's the occupancy rate?", model.Intent{Action: model.ActionOccupancyCheck})

		var status string
		f.expectOutcome(t, &status)

		f.dashboard.EXPECT().
			GetStats(gomock.Any()).
			Return(dashboardDto.StatsResponse{
				TotalRooms:     12,
				OccupiedRooms:  6,
				OccupancyRate:  50,
				CheckinsToday:  3,
				CheckoutsToday: 1,
			}, nil)

		reply, err := f.svc.Resolve(context.Background(), webhook("What's the occupancy rate?"))

		assert.NoError(t, err)
		assert.Equal(t, "Current occupancy: 6/12 rooms (50.0%). Check-ins today: 3. Check-outs today: 1", reply)
		assert.Equal(t, model.StatusCompleted, status)
	})

	t.Run("stats failure degrades to failed command", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("Check revenue today", model.Intent{Action: model.ActionRevenueCheck})

		var status string
		f.expectOutcome(t, &status)

		f.dashboard.EXPECT().
			GetStats(gomock.Any()).
			Return(dashboardDto.StatsResponse{}, errors.New("db down"))

		reply, err := f.svc.Resolve(context.Background(), webhook("Check revenue today"))

		assert.NoError(t, err)
		assert.Equal(t, "Could not retrieve revenue information", reply)
		assert.Equal(t, model.StatusFailed, status)
	})
}

func TestCommandService_Resolve_Unknown(t *testing.T) {
	t.Run("unknown intent replies with help", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("hello there", model.UnknownIntent())

		var status string
		f.expectOutcome(t, &status)

		reply, err := f.svc.Resolve(context.Background(), webhook("hello there"))

		assert.NoError(t, err)
		assert.Contains(t, reply, "Supported actions")
		assert.Equal(t, model.StatusProcessed, status)
	})

	t.Run("interpreter failure degrades to unknown", func(t *testing.T) {
		f := newFixture(t)

		f.interpreter.EXPECT().
			Interpret(gomock.Any(), "hello there").
			Return(model.Intent{}, errors.New("upstream timeout"))

		var status string
		f.expectOutcome(t, &status)

		reply, err := f.svc.Resolve(context.Background(), webhook("hello there"))

		assert.NoError(t, err)
		assert.Contains(t, reply, "Supported actions")
		assert.Equal(t, model.StatusProcessed, status)
	})

	t.Run("insert failure stops processing", func(t *testing.T) {
		f := newFixture(t)
		f.expectIntent("hello there", model.UnknownIntent())

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("db down"))

		_, err := f.svc.Resolve(context.Background(), webhook("hello there"))

		assert.Error(t, err)
	})
}

func TestCommandService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Command{
			{ID: "cmd-1", Sender: "whatsapp:+14155551234", Message: "Check revenue today", ParsedAction: `{"action":"revenue_check"}`, Status: model.StatusCompleted},
		}, nil)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Commands, 1)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, model.StatusCompleted, res.Commands[0].Status)
}
