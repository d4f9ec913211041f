package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	bookingmocks "innkeep/internal/domains/booking/mocks"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/service"
	guestmocks "innkeep/internal/domains/guest/mocks"
	guestDto "innkeep/internal/domains/guest/model/dto"
	roommocks "innkeep/internal/domains/room/mocks"
	roomModel "innkeep/internal/domains/room/model"
	"innkeep/internal/events"
	"innkeep/shared/cache"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
)

type missCache struct{}

func (missCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (missCache) Get(_ context.Context, _ string, _ any) error        { return cache.CacheNil }
func (missCache) Delete(_ context.Context, _ string) error            { return nil }
func (missCache) Clear(_ context.Context, _ string) error             { return nil }

type fixture struct {
	svc       service.Booking
	repo      *bookingmocks.MockBooking
	roomRepo  *roommocks.MockRoom
	guestRepo *guestmocks.MockGuest
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := bookingmocks.NewMockBooking(ctrl)
	roomRepo := roommocks.NewMockRoom(ctrl)
	guestRepo := guestmocks.NewMockGuest(ctrl)

	svc := service.New(repo, roomRepo, guestRepo, &config.Config{}, missCache{}, mocks.NewOtel(), events.NewNoop())

	return fixture{svc: svc, repo: repo, roomRepo: roomRepo, guestRepo: guestRepo}
}

func standardRoom() roomModel.Room {
	return roomModel.Room{
		ID:            "room-id-102",
		Number:        "102",
		Type:          roomModel.TypeStandard,
		Status:        roomModel.StatusAvailable,
		Floor:         1,
		PricePerNight: 120,
	}
}

func confirmedBooking() model.Booking {
	start, _ := timezone.Parse("2006-01-02", "2026-09-10")
	end, _ := timezone.Parse("2006-01-02", "2026-09-12")

	return model.Booking{
		ID:           "booking-1",
		GuestID:      "guest-1",
		RoomID:       "room-id-102",
		CheckInDate:  start,
		CheckOutDate: end,
		Status:       model.StatusConfirmed,
		TotalAmount:  240,
		GuestName:    "John Smith",
		RoomNumber:   "102",
	}
}

func inTransaction(repo *bookingmocks.MockBooking) {
	repo.EXPECT().
		Transact(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		})
}

func TestBookingService_Create(t *testing.T) {
	t.Run("defaults total amount to nights times room rate", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(standardRoom(), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		f.guestRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		inTransaction(f.repo)

		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
				assert.Equal(t, model.StatusConfirmed, booking.Status)
				assert.Equal(t, 240.0, booking.TotalAmount)

				return nil
			})

		res, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
			GuestID:      "guest-1",
			RoomID:       "room-id-102",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-12",
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Nights)
		assert.Equal(t, 240.0, res.TotalAmount)
		assert.Equal(t, "102", res.RoomNumber)
	})

	t.Run("creates a new guest in the same transaction", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(standardRoom(), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		inTransaction(f.repo)

		f.guestRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
			Guest:        &guestDto.CreateGuestRequest{Name: "Maria Garcia"},
			RoomID:       "room-id-102",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-11",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Maria Garcia", res.GuestName)
		assert.NotEmpty(t, res.GuestID)
	})

	t.Run("overlapping booking conflicts", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(standardRoom(), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
			GuestID:      "guest-1",
			RoomID:       "room-id-102",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-12",
		})

		assert.True(t, failure.IsConflict(err))
	})

	t.Run("maintenance room conflicts", func(t *testing.T) {
		f := newFixture(t)

		room := standardRoom()
		room.Status = roomModel.StatusMaintenance

		f.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		_, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
			GuestID:      "guest-1",
			RoomID:       "room-id-102",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-12",
		})

		assert.True(t, failure.IsConflict(err))
	})

	t.Run("check-out date not after check-in date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
			GuestID:      "guest-1",
			RoomID:       "room-id-102",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-10",
		})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("requires guest_id or guest", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
			RoomID:       "room-id-102",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-12",
		})

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(roomModel.Room{}, nil)

		_, err := f.svc.Create(context.Background(), dto.CreateBookingRequest{
			GuestID:      "guest-1",
			RoomID:       "missing",
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-12",
		})

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestBookingService_HasConflict(t *testing.T) {
	// The overlap window is half open: an existing stay that ends on the new
	// start date must not conflict (same-day turnover).
	f := newFixture(t)

	var captured gDto.FilterGroup

	f.repo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
			captured = filter

			return false, nil
		})

	start, _ := timezone.Parse("2006-01-02", "2026-09-12")
	end, _ := timezone.Parse("2006-01-02", "2026-09-14")

	conflict, err := f.svc.HasConflict(context.Background(), "room-id-102", start, end)

	assert.NoError(t, err)
	assert.False(t, conflict)

	where, args := captured.GetWhereClause()

	assert.Contains(t, where, "bookings.check_in_date < :overlap_end")
	assert.Contains(t, where, "bookings.check_out_date > :overlap_start")
	assert.False(t, strings.Contains(where, "<="))
	assert.False(t, strings.Contains(where, ">="))
	assert.Equal(t, end, args["overlap_end"])
	assert.Equal(t, start, args["overlap_start"])

	// Pending bookings hold their room just like confirmed and checked-in
	// ones; only cancelled and checked-out stays free the window.
	var statuses []string

	for _, raw := range captured.Filters {
		filter, ok := raw.(gDto.Filter)
		if ok && filter.Field == model.FieldStatus {
			statuses, _ = filter.Value.([]string)
		}
	}

	assert.ElementsMatch(t, []string{model.StatusPending, model.StatusConfirmed, model.StatusCheckedIn}, statuses)
}

func TestBookingService_CheckIn(t *testing.T) {
	t.Run("confirmed booking checks in and occupies the room", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmedBooking(), nil)

		inTransaction(f.repo)

		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusCheckedIn, fields[model.FieldStatus])
				assert.NotNil(t, fields[model.FieldActualCheckIn])

				return nil
			})

		f.roomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, roomModel.StatusOccupied, fields[roomModel.FieldStatus])

				return nil
			})

		res, err := f.svc.CheckIn(context.Background(), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCheckedIn, res.Status)
		assert.NotEmpty(t, res.ActualCheckIn)
	})

	t.Run("pending booking cannot check in", func(t *testing.T) {
		f := newFixture(t)

		booking := confirmedBooking()
		booking.Status = model.StatusPending

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		_, err := f.svc.CheckIn(context.Background(), "booking-1")

		assert.True(t, failure.IsInvalidTransition(err))
	})

	t.Run("double check-in is rejected", func(t *testing.T) {
		f := newFixture(t)

		booking := confirmedBooking()
		booking.Status = model.StatusCheckedIn

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		_, err := f.svc.CheckIn(context.Background(), "booking-1")

		assert.True(t, failure.IsInvalidTransition(err))
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := f.svc.CheckIn(context.Background(), "missing")

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestBookingService_CheckOut(t *testing.T) {
	t.Run("checked-in booking checks out and frees the room", func(t *testing.T) {
		f := newFixture(t)

		booking := confirmedBooking()
		booking.Status = model.StatusCheckedIn

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		inTransaction(f.repo)

		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusCheckedOut, fields[model.FieldStatus])
				assert.NotNil(t, fields[model.FieldActualCheckOut])

				return nil
			})

		f.roomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, roomModel.StatusAvailable, fields[roomModel.FieldStatus])

				return nil
			})

		res, err := f.svc.CheckOut(context.Background(), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCheckedOut, res.Status)
		assert.NotEmpty(t, res.ActualCheckOut)
	})

	t.Run("confirmed booking cannot check out", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmedBooking(), nil)

		_, err := f.svc.CheckOut(context.Background(), "booking-1")

		assert.True(t, failure.IsInvalidTransition(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("cancels confirmed booking without touching the room", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmedBooking(), nil)

		inTransaction(f.repo)

		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

				return nil
			})

		err := f.svc.Cancel(context.Background(), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("cancelling a checked-in booking frees the room", func(t *testing.T) {
		f := newFixture(t)

		booking := confirmedBooking()
		booking.Status = model.StatusCheckedIn

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		inTransaction(f.repo)

		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		f.roomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, roomModel.StatusAvailable, fields[roomModel.FieldStatus])

				return nil
			})

		err := f.svc.Cancel(context.Background(), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("checked-out booking cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)

		booking := confirmedBooking()
		booking.Status = model.StatusCheckedOut

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := f.svc.Cancel(context.Background(), "booking-1")

		assert.True(t, failure.IsInvalidTransition(err))
	})
}
