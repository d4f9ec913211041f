package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"innkeep/config"
	"innkeep/infras/openai"
	"innkeep/infras/otel"
	bookingModel "innkeep/internal/domains/booking/model"
	bookingDto "innkeep/internal/domains/booking/model/dto"
	bookingService "innkeep/internal/domains/booking/service"
	"innkeep/internal/domains/command/model"
	"innkeep/internal/domains/command/model/dto"
	"innkeep/internal/domains/command/repository"
	dashboardService "innkeep/internal/domains/dashboard/service"
	guestDto "innkeep/internal/domains/guest/model/dto"
	guestService "innkeep/internal/domains/guest/service"
	roomModel "innkeep/internal/domains/room/model"
	roomDto "innkeep/internal/domains/room/model/dto"
	roomService "innkeep/internal/domains/room/service"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const helpMessage = "Sorry, I could not understand that command. " +
	"Supported actions: book_room, check_in, check_out, revenue_check, occupancy_check, block_room, unblock_room, room_status"

// Command resolves inbound messaging-channel commands. Every message is
// persisted first, then dispatched against the operational services, and the
// stored record is updated with the outcome so the audit trail survives
// processing failures.
type Command interface {
	Resolve(ctx context.Context, req dto.WebhookRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCommandsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo        repository.Command
	interpreter openai.Interpreter
	rooms       roomService.Room
	guests      guestService.Guest
	bookings    bookingService.Booking
	dashboard   dashboardService.Dashboard
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Command,
	interpreter openai.Interpreter,
	rooms roomService.Room,
	guests guestService.Guest,
	bookings bookingService.Booking,
	dashboard dashboardService.Dashboard,
	cfg *config.Config,
	otel otel.Otel,
) Command {
	return &serviceImpl{
		repo:        repo,
		interpreter: interpreter,
		rooms:       rooms,
		guests:      guests,
		bookings:    bookings,
		dashboard:   dashboard,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Resolve(ctx context.Context, req dto.WebhookRequest) (reply string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	log.Info().Str("sender", req.From).Msg("received channel command")

	intent, err := s.interpreter.Interpret(ctx, req.Body)
	if err != nil {
		log.Warn().Err(err).Msg("intent interpretation failed, treating command as unknown")

		intent = model.UnknownIntent()
	}

	parsed, err := json.Marshal(intent)
	if err != nil {
		return "", fmt.Errorf("failed to marshal parsed intent: %w", err)
	}

	command := model.Command{
		ID:           uuid.NewString(),
		Sender:       req.From,
		Message:      req.Body,
		ParsedAction: string(parsed),
		Status:       model.StatusPending,
	}
	command.CreatedAt = timezone.Now()
	command.ModifiedAt = timezone.Now()

	if err = s.repo.Insert(ctx, command); err != nil {
		return "", err
	}

	reply, status := s.dispatch(ctx, intent)

	now := timezone.Now()

	update := map[string]any{
		model.FieldStatus:        status,
		model.FieldProcessedAt:   now,
		constant.FieldModifiedAt: now,
	}

	if status == model.StatusFailed {
		update[model.FieldErrorMessage] = reply
	}

	// The operational side effects already happened, so an audit update
	// failure must not swallow the reply.
	if updateErr := s.repo.Update(ctx, update, shared.FilterByID(command.ID, model.FieldID, model.TableName)); updateErr != nil {
		log.Error().Err(updateErr).Str("commandID", command.ID).Msg("failed to update command outcome")
	}

	return reply, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCommandsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	commands, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get commands")

		return res, fmt.Errorf("failed to get commands: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count commands")

		return res, fmt.Errorf("failed to count commands: %w", err)
	}

	res.FromModels(commands, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count commands")

		return res, fmt.Errorf("failed to count commands: %w", err)
	}

	return res, nil
}

// dispatch executes the intent against the operational services and returns
// the reply text plus the resulting command status.
func (s *serviceImpl) dispatch(ctx context.Context, intent model.Intent) (string, string) {
	if missing := intent.MissingParams(); len(missing) > 0 {
		return fmt.Sprintf("Please specify %s", strings.Join(missing, ", ")), model.StatusFailed
	}

	switch intent.Action {
	case model.ActionBlockRoom:
		return s.blockRoom(ctx, intent)
	case model.ActionUnblockRoom:
		return s.unblockRoom(ctx, intent)
	case model.ActionCheckIn:
		return s.checkIn(ctx, intent)
	case model.ActionCheckOut:
		return s.checkOut(ctx, intent)
	case model.ActionRoomStatus:
		return s.roomStatus(ctx, intent)
	case model.ActionBookRoom:
		return s.bookRoom(ctx, intent)
	case model.ActionRevenueCheck:
		return s.revenueCheck(ctx)
	case model.ActionOccupancyCheck:
		return s.occupancyCheck(ctx)
	default:
		return helpMessage, model.StatusProcessed
	}
}

func (s *serviceImpl) blockRoom(ctx context.Context, intent model.Intent) (string, string) {
	room, err := s.rooms.GetByNumber(ctx, intent.Room)
	if err != nil {
		return s.roomLookupReply(intent.Room, err)
	}

	reason := intent.Details
	if reason == "" {
		reason = "Blocked via WhatsApp"
	}

	err = s.rooms.Block(ctx, room.ID, roomDto.BlockRoomRequest{EndDate: intent.EndDate, Reason: reason})
	if err != nil {
		return failureReply(err)
	}

	return fmt.Sprintf("Room %s has been blocked until %s", intent.Room, intent.EndDate), model.StatusCompleted
}

func (s *serviceImpl) unblockRoom(ctx context.Context, intent model.Intent) (string, string) {
	room, err := s.rooms.GetByNumber(ctx, intent.Room)
	if err != nil {
		return s.roomLookupReply(intent.Room, err)
	}

	if err = s.rooms.Unblock(ctx, room.ID); err != nil {
		return failureReply(err)
	}

	return fmt.Sprintf("Room %s has been unblocked", intent.Room), model.StatusCompleted
}

func (s *serviceImpl) checkIn(ctx context.Context, intent model.Intent) (string, string) {
	room, err := s.rooms.GetByNumber(ctx, intent.Room)
	if err != nil {
		return s.roomLookupReply(intent.Room, err)
	}

	bookings, err := s.bookings.FindByRoom(ctx, room.ID, []string{bookingModel.StatusConfirmed})
	if err != nil {
		return failureReply(err)
	}

	booking, found := matchGuest(bookings, intent.GuestName)
	if !found {
		return fmt.Sprintf("No confirmed booking found for %s in room %s", intent.GuestName, intent.Room), model.StatusFailed
	}

	if _, err = s.bookings.CheckIn(ctx, booking.ID); err != nil {
		return failureReply(err)
	}

	return fmt.Sprintf("%s has been checked into room %s. Welcome to the hotel!", booking.GuestName, intent.Room), model.StatusCompleted
}

func (s *serviceImpl) checkOut(ctx context.Context, intent model.Intent) (string, string) {
	room, err := s.rooms.GetByNumber(ctx, intent.Room)
	if err != nil {
		return s.roomLookupReply(intent.Room, err)
	}

	bookings, err := s.bookings.FindByRoom(ctx, room.ID, []string{bookingModel.StatusCheckedIn})
	if err != nil {
		return failureReply(err)
	}

	if len(bookings) == 0 {
		return fmt.Sprintf("No checked-in guest found in room %s", intent.Room), model.StatusFailed
	}

	if _, err = s.bookings.CheckOut(ctx, bookings[0].ID); err != nil {
		return failureReply(err)
	}

	return fmt.Sprintf("Guest has been checked out from room %s. Thank you for staying with us!", intent.Room), model.StatusCompleted
}

func (s *serviceImpl) roomStatus(ctx context.Context, intent model.Intent) (string, string) {
	// A status query without a room number is not actionable, so it gets the
	// help reply rather than a failure.
	if intent.Room == constant.Empty {
		return helpMessage, model.StatusProcessed
	}

	room, err := s.rooms.GetByNumber(ctx, intent.Room)
	if err != nil {
		return s.roomLookupReply(intent.Room, err)
	}

	reply := fmt.Sprintf("Room %s status: %s", intent.Room, strings.ToUpper(room.Status))

	if strings.Contains(strings.ToLower(intent.Details), "maintenance complete") {
		err = s.rooms.Update(ctx, roomDto.UpdateRoomRequest{Status: roomModel.StatusAvailable}, room.ID)
		if err != nil {
			return failureReply(err)
		}

		reply += ". Room status updated to AVAILABLE"
	}

	return reply, model.StatusCompleted
}

func (s *serviceImpl) bookRoom(ctx context.Context, intent model.Intent) (string, string) {
	room, err := s.rooms.GetByNumber(ctx, intent.Room)
	if err != nil {
		return s.roomLookupReply(intent.Room, err)
	}

	req := bookingDto.CreateBookingRequest{
		RoomID:       room.ID,
		CheckInDate:  intent.StartDate,
		CheckOutDate: intent.EndDate,
		Status:       bookingModel.StatusConfirmed,
		Notes:        bookingNotes(intent),
	}

	guest, err := s.guests.FindByName(ctx, intent.GuestName)

	switch {
	case err == nil:
		req.GuestID = guest.ID
	case failure.IsNotFound(err):
		req.Guest = &guestDto.CreateGuestRequest{Name: intent.GuestName, Phone: intent.GuestPhone}
	default:
		return failureReply(err)
	}

	booking, err := s.bookings.Create(ctx, req)
	if err != nil {
		if failure.IsConflict(err) {
			return fmt.Sprintf("Room %s is not available from %s to %s", intent.Room, intent.StartDate, intent.EndDate), model.StatusFailed
		}

		return failureReply(err)
	}

	reply := fmt.Sprintf(
		"Room %s booked for %s from %s to %s. Total: %.2f (%d nights). Booking confirmed!",
		intent.Room, intent.GuestName, intent.StartDate, intent.EndDate, booking.TotalAmount, booking.Nights,
	)

	return reply, model.StatusCompleted
}

func (s *serviceImpl) revenueCheck(ctx context.Context) (string, string) {
	stats, err := s.dashboard.GetStats(ctx)
	if err != nil {
		return "Could not retrieve revenue information", model.StatusFailed
	}

	reply := fmt.Sprintf(
		"Revenue today: %.2f. Total rooms: %d. Occupied: %d",
		stats.RevenueToday, stats.TotalRooms, stats.OccupiedRooms,
	)

	return reply, model.StatusCompleted
}

func (s *serviceImpl) occupancyCheck(ctx context.Context) (string, string) {
	stats, err := s.dashboard.GetStats(ctx)
	if err != nil {
		return "Could not retrieve occupancy information", model.StatusFailed
	}

	reply := fmt.Sprintf(
		"Current occupancy: %d/%d rooms (%.1f%%). Check-ins today: %d. Check-outs today: %d",
		stats.OccupiedRooms, stats.TotalRooms, stats.OccupancyRate, stats.CheckinsToday, stats.CheckoutsToday,
	)

	return reply, model.StatusCompleted
}

func (s *serviceImpl) roomLookupReply(number string, err error) (string, string) {
	if failure.IsNotFound(err) {
		return fmt.Sprintf("Could not find room %s", number), model.StatusFailed
	}

	return failureReply(err)
}

func failureReply(err error) (string, string) {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return fail.Message, model.StatusFailed
	}

	log.Error().Err(err).Msg("command processing failed")

	return "Error processing command", model.StatusFailed
}

// matchGuest finds the first booking whose guest name contains the requested
// name, case-insensitively.
func matchGuest(bookings []bookingDto.BookingResponse, name string) (bookingDto.BookingResponse, bool) {
	needle := strings.ToLower(name)

	for _, booking := range bookings {
		if strings.Contains(strings.ToLower(booking.GuestName), needle) {
			return booking, true
		}
	}

	return bookingDto.BookingResponse{}, false
}

func bookingNotes(intent model.Intent) string {
	notes := "Booked via WhatsApp"

	if intent.CheckInTime != "" {
		notes += " - Check-in: " + intent.CheckInTime
	}

	if intent.CheckOutTime != "" {
		notes += " - Check-out: " + intent.CheckOutTime
	}

	return notes
}
