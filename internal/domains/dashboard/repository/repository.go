package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	bookingModel "innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/dashboard/model"
	roomModel "innkeep/internal/domains/room/model"
	"innkeep/shared/constant"
	"innkeep/shared/logger"
)

// Dashboard aggregates live occupancy and revenue figures. The generic entity
// repository cannot express SUM or date-window counts, so the queries here are
// written by hand against the read connection.
type Dashboard interface {
	Stats(ctx context.Context, dayStart, dayEnd time.Time) (model.Stats, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Dashboard {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (repo *repositoryImpl) Stats(ctx context.Context, dayStart, dayEnd time.Time) (stats model.Stats, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Stats", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	stats.DayStart = dayStart
	stats.DayEnd = dayEnd

	err = repo.db.Read.GetContext(ctx, &stats.TotalRooms,
		"SELECT COUNT(id) FROM rooms")
	if err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to count rooms: %w", err)
	}

	err = repo.db.Read.GetContext(ctx, &stats.OccupiedRooms,
		"SELECT COUNT(id) FROM rooms WHERE status = $1", roomModel.StatusOccupied)
	if err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to count occupied rooms: %w", err)
	}

	err = repo.db.Read.GetContext(ctx, &stats.CheckinsToday,
		"SELECT COUNT(id) FROM bookings WHERE check_in_date >= $1 AND check_in_date < $2 AND status IN ($3, $4)",
		dayStart, dayEnd, bookingModel.StatusConfirmed, bookingModel.StatusCheckedIn)
	if err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to count today's check-ins: %w", err)
	}

	err = repo.db.Read.GetContext(ctx, &stats.CheckoutsToday,
		"SELECT COUNT(id) FROM bookings WHERE actual_check_out >= $1 AND actual_check_out < $2",
		dayStart, dayEnd)
	if err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to count today's check-outs: %w", err)
	}

	err = repo.db.Read.GetContext(ctx, &stats.RevenueToday,
		"SELECT COALESCE(SUM(paid_amount), 0) FROM bookings WHERE actual_check_in >= $1 AND actual_check_in < $2",
		dayStart, dayEnd)
	if err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to sum today's revenue: %w", err)
	}

	return stats, nil
}
