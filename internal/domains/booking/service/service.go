package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"math"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/repository"
	guestModel "innkeep/internal/domains/guest/model"
	guestRepository "innkeep/internal/domains/guest/repository"
	roomModel "innkeep/internal/domains/room/model"
	roomRepository "innkeep/internal/domains/room/repository"
	"innkeep/internal/events"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/lock"
	"innkeep/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

// conflictStatuses are the booking statuses that hold a room for their date
// window. Cancelled and checked-out bookings never conflict.
var conflictStatuses = []string{model.StatusPending, model.StatusConfirmed, model.StatusCheckedIn}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	CheckIn(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) error
	HasConflict(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	FindByRoom(ctx context.Context, roomID string, statuses []string) ([]dto.BookingResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepository.Room
	guestRepo guestRepository.Guest
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	publisher events.Publisher
	locks     *lock.Keyed
}

func New(
	repo repository.Booking,
	roomRepo roomRepository.Room,
	guestRepo guestRepository.Guest,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher events.Publisher,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		guestRepo: guestRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		publisher: publisher,
		locks:     lock.NewKeyed(),
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, end, err := parseStayDates(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return res, err
	}

	if req.GuestID == constant.Empty && req.Guest == nil {
		return res, failure.BadRequestFromString("either guest_id or guest is required") //nolint:wrapcheck
	}

	// All availability checks and the insert happen under the room's lock so
	// two overlapping requests cannot both pass the conflict check.
	s.locks.Lock(req.RoomID)
	defer s.locks.Unlock(req.RoomID)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	if room.Status == roomModel.StatusMaintenance {
		return res, failure.Conflict(fmt.Sprintf("room %s is under maintenance", room.Number)) //nolint:wrapcheck
	}

	conflict, err := s.HasConflict(ctx, room.ID, start, end)
	if err != nil {
		return res, err
	}

	if conflict {
		return res, failure.Conflict(fmt.Sprintf("room %s already has a booking for those dates", room.Number)) //nolint:wrapcheck
	}

	guestID := req.GuestID
	var newGuest *guestModel.Guest

	if guestID == constant.Empty {
		guest := req.Guest.ToModel()
		newGuest = &guest
		guestID = guest.ID
	} else {
		exist, err := s.guestRepo.Exist(ctx, shared.FilterByID(guestID, guestModel.FieldID, guestModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check guest existence")

			return res, fmt.Errorf("failed to check guest existence: %w", err)
		}

		if !exist {
			return res, failure.NotFound("guest not found") //nolint:wrapcheck
		}
	}

	totalAmount := float64(nights(start, end)) * room.PricePerNight
	if req.TotalAmount != nil {
		totalAmount = *req.TotalAmount
	}

	booking := req.ToModel(guestID, start, end, totalAmount)

	err = s.repo.Transact(ctx, func(tx *sqlx.Tx) error {
		if newGuest != nil {
			if err := s.guestRepo.InsertTx(ctx, tx, *newGuest); err != nil {
				return err
			}
		}

		return s.repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, err
	}

	booking.RoomNumber = room.Number
	if newGuest != nil {
		booking.GuestName = newGuest.Name
		booking.GuestPhone = newGuest.Phone
	}

	res.FromModel(booking)

	s.publisher.Publish(ctx, events.BookingCreated, booking.ID, map[string]any{
		"room_number":    room.Number,
		"check_in_date":  req.CheckInDate,
		"check_out_date": req.CheckOutDate,
	})

	s.invalidateListCaches(ctx)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, shared.TransformFields(req), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidateBookingCaches(ctx, booking.ID)

	return nil
}

// CheckIn moves a confirmed booking to checked_in, stamping the actual
// check-in time and flipping the room to occupied in the same transaction.
func (s *serviceImpl) CheckIn(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	s.locks.Lock(booking.RoomID)
	defer s.locks.Unlock(booking.RoomID)

	if booking.Status != model.StatusConfirmed {
		return res, failure.InvalidTransition(fmt.Sprintf("booking is %s, only confirmed bookings can check in", booking.Status)) //nolint:wrapcheck
	}

	now := timezone.Now()

	err = s.repo.Transact(ctx, func(tx *sqlx.Tx) error {
		err := s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        model.StatusCheckedIn,
			model.FieldActualCheckIn: now,
			constant.FieldModifiedAt: now,
		}, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return err
		}

		return s.roomRepo.UpdateTx(ctx, tx, map[string]any{
			roomModel.FieldStatus:    roomModel.StatusOccupied,
			constant.FieldModifiedAt: now,
		}, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check in booking")

		return res, err
	}

	booking.Status = model.StatusCheckedIn
	booking.ActualCheckIn = &now
	res.FromModel(booking)

	s.publisher.Publish(ctx, events.BookingCheckedIn, booking.ID, map[string]any{
		"room_number": booking.RoomNumber,
		"guest_name":  booking.GuestName,
	})

	s.invalidateBookingCaches(ctx, booking.ID)

	return res, nil
}

// CheckOut moves a checked-in booking to checked_out and frees the room.
func (s *serviceImpl) CheckOut(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getByID(ctx, id)
	if err != nil {
		return res, err
	}

	s.locks.Lock(booking.RoomID)
	defer s.locks.Unlock(booking.RoomID)

	if booking.Status != model.StatusCheckedIn {
		return res, failure.InvalidTransition(fmt.Sprintf("booking is %s, only checked-in bookings can check out", booking.Status)) //nolint:wrapcheck
	}

	now := timezone.Now()

	err = s.repo.Transact(ctx, func(tx *sqlx.Tx) error {
		err := s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:         model.StatusCheckedOut,
			model.FieldActualCheckOut: now,
			constant.FieldModifiedAt:  now,
		}, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return err
		}

		return s.roomRepo.UpdateTx(ctx, tx, map[string]any{
			roomModel.FieldStatus:    roomModel.StatusAvailable,
			constant.FieldModifiedAt: now,
		}, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check out booking")

		return res, err
	}

	booking.Status = model.StatusCheckedOut
	booking.ActualCheckOut = &now
	res.FromModel(booking)

	s.publisher.Publish(ctx, events.BookingCheckedOut, booking.ID, map[string]any{
		"room_number": booking.RoomNumber,
		"guest_name":  booking.GuestName,
	})

	s.invalidateBookingCaches(ctx, booking.ID)

	return res, nil
}

// Cancel voids a pending, confirmed or checked-in booking. Cancelling a
// checked-in booking also frees the room.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	s.locks.Lock(booking.RoomID)
	defer s.locks.Unlock(booking.RoomID)

	switch booking.Status {
	case model.StatusPending, model.StatusConfirmed, model.StatusCheckedIn:
	default:
		return failure.InvalidTransition(fmt.Sprintf("booking is %s and can no longer be cancelled", booking.Status)) //nolint:wrapcheck
	}

	now := timezone.Now()

	err = s.repo.Transact(ctx, func(tx *sqlx.Tx) error {
		err := s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        model.StatusCancelled,
			constant.FieldModifiedAt: now,
		}, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return err
		}

		if booking.Status != model.StatusCheckedIn {
			return nil
		}

		return s.roomRepo.UpdateTx(ctx, tx, map[string]any{
			roomModel.FieldStatus:    roomModel.StatusAvailable,
			constant.FieldModifiedAt: now,
		}, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return err
	}

	s.publisher.Publish(ctx, events.BookingCancelled, booking.ID, map[string]any{
		"room_number": booking.RoomNumber,
	})

	s.invalidateBookingCaches(ctx, booking.ID)

	return nil
}

// HasConflict reports whether the room already has a holding booking whose
// window overlaps [start, end). Windows are half open, so a stay ending on a
// given day never conflicts with one starting that same day.
func (s *serviceImpl) HasConflict(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	exist, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    conflictStatuses,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "overlap_end",
				Field:    model.FieldCheckInDate,
				Value:    end,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "overlap_start",
				Field:    model.FieldCheckOutDate,
				Value:    start,
				Operator: gDto.FilterOperatorGreater,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking conflict")

		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}

	return exist, nil
}

func (s *serviceImpl) FindByRoom(ctx context.Context, roomID string, statuses []string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindByRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    statuses,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldCheckInDate, SortDir: "ASC"}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to find bookings by room")

		return res, fmt.Errorf("failed to find bookings by room: %w", err)
	}

	res = make([]dto.BookingResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res, nil
}

func (s *serviceImpl) getByID(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func parseStayDates(checkIn, checkOut string) (start, end time.Time, err error) {
	start, err = timezone.Parse(constant.DateOnlyFormat, checkIn)
	if err != nil {
		return start, end, failure.BadRequestFromString("check_in_date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	end, err = timezone.Parse(constant.DateOnlyFormat, checkOut)
	if err != nil {
		return start, end, failure.BadRequestFromString("check_out_date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	if !end.After(start) {
		return start, end, failure.BadRequestFromString("check_out_date must be after check_in_date") //nolint:wrapcheck
	}

	return start, end, nil
}

// nights rounds up so a stay spanning a short DST day still counts every
// calendar night.
func nights(start, end time.Time) int {
	n := int(math.Ceil(end.Sub(start).Hours() / 24))
	if n < 1 {
		n = 1
	}

	return n
}
