package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	dashmocks "innkeep/internal/domains/dashboard/mocks"
	"innkeep/internal/domains/dashboard/model"
	"innkeep/internal/domains/dashboard/service"
	"innkeep/shared/cache"
	"innkeep/shared/timezone"
)

type missCache struct{}

func (missCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (missCache) Get(_ context.Context, _ string, _ any) error        { return cache.CacheNil }
func (missCache) Delete(_ context.Context, _ string) error            { return nil }
func (missCache) Clear(_ context.Context, _ string) error             { return nil }

func TestDashboardService_GetStats(t *testing.T) {
	t.Run("derives occupancy rate and available rooms", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := dashmocks.NewMockDashboard(ctrl)

		svc := service.New(repo, &config.Config{}, missCache{}, mocks.NewOtel())

		repo.EXPECT().
			Stats(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, dayStart, dayEnd time.Time) (model.Stats, error) {
				assert.Equal(t, timezone.Today(), dayStart)
				assert.Equal(t, timezone.Today().Add(24*time.Hour), dayEnd)

				return model.Stats{
					TotalRooms:     12,
					OccupiedRooms:  6,
					CheckinsToday:  3,
					CheckoutsToday: 1,
					RevenueToday:   840,
					DayStart:       dayStart,
					DayEnd:         dayEnd,
				}, nil
			})

		res, err := svc.GetStats(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 12, res.TotalRooms)
		assert.Equal(t, 6, res.AvailableRooms)
		assert.Equal(t, 50.0, res.OccupancyRate)
		assert.Equal(t, 840.0, res.RevenueToday)
		assert.Equal(t, 3, res.CheckinsToday)
	})

	t.Run("empty hotel reports zero rate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := dashmocks.NewMockDashboard(ctrl)

		svc := service.New(repo, &config.Config{}, missCache{}, mocks.NewOtel())

		repo.EXPECT().
			Stats(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Stats{}, nil)

		res, err := svc.GetStats(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0.0, res.OccupancyRate)
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := dashmocks.NewMockDashboard(ctrl)

		svc := service.New(repo, &config.Config{}, missCache{}, mocks.NewOtel())

		repo.EXPECT().
			Stats(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Stats{}, errors.New("db down"))

		_, err := svc.GetStats(context.Background())

		assert.Error(t, err)
	})
}
