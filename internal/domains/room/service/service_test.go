package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	roommocks "innkeep/internal/domains/room/mocks"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/service"
	"innkeep/internal/events"
	"innkeep/shared/cache"
	"innkeep/shared/failure"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
)

// memoryCache is a threadsafe stand-in for Redis so the async invalidation
// goroutines never race with test assertions.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]any
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]any{}}
}

func (c *memoryCache) Save(_ context.Context, key string, value any, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value

	return nil
}

func (c *memoryCache) Get(_ context.Context, _ string, _ any) error {
	return cache.CacheNil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

func (c *memoryCache) Clear(_ context.Context, _ string) error {
	return nil
}

func availableRoom() model.Room {
	return model.Room{
		ID:            "room-id-102",
		Number:        "102",
		Type:          model.TypeStandard,
		Status:        model.StatusAvailable,
		Floor:         1,
		MaxOccupancy:  2,
		PricePerNight: 120,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

func newService(t *testing.T) (service.Room, *roommocks.MockRoom) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := roommocks.NewMockRoom(ctrl)

	svc := service.New(repo, &config.Config{}, newMemoryCache(), mocks.NewOtel(), events.NewNoop())

	return svc, repo
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(repo *roommocks.MockRoom)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "successful create",
			req: dto.CreateRoomRequest{
				Number:        "102",
				Type:          model.TypeStandard,
				Floor:         1,
				PricePerNight: 120,
			},
			setupMock: func(repo *roommocks.MockRoom) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "duplicate room number",
			req: dto.CreateRoomRequest{
				Number:        "102",
				Type:          model.TypeStandard,
				Floor:         1,
				PricePerNight: 120,
			},
			setupMock: func(repo *roommocks.MockRoom) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantCode: 409,
			wantErr:  true,
		},
		{
			name: "repository error",
			req: dto.CreateRoomRequest{
				Number:        "102",
				Type:          model.TypeStandard,
				Floor:         1,
				PricePerNight: 120,
			},
			setupMock: func(repo *roommocks.MockRoom) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			err := svc.Create(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableRoom(), nil)

		res, err := svc.Get(context.Background(), "room-id-102")

		assert.NoError(t, err)
		assert.Equal(t, "102", res.Number)
		assert.Equal(t, model.StatusAvailable, res.Status)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestRoomService_GetByNumber(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableRoom(), nil)

		res, err := svc.GetByNumber(context.Background(), "102")

		assert.NoError(t, err)
		assert.Equal(t, "room-id-102", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		_, err := svc.GetByNumber(context.Background(), "999")

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestRoomService_Block(t *testing.T) {
	blockReq := dto.BlockRoomRequest{
		EndDate: "2026-09-15",
		Reason:  "deep cleaning",
	}

	tests := []struct {
		name      string
		setupMock func(repo *roommocks.MockRoom)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "blocks available room",
			setupMock: func(repo *roommocks.MockRoom) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(availableRoom(), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, model.StatusBlocked, fields[model.FieldStatus])
						assert.Equal(t, "deep cleaning", fields[model.FieldBlockReason])

						until, ok := fields[model.FieldBlockedUntil].(time.Time)
						assert.True(t, ok)
						assert.Equal(t, "2026-09-15", timezone.DateOnly(until))

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "re-blocking a blocked room updates the window",
			setupMock: func(repo *roommocks.MockRoom) {
				room := availableRoom()
				room.Status = model.StatusBlocked

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "occupied room conflicts",
			setupMock: func(repo *roommocks.MockRoom) {
				room := availableRoom()
				room.Status = model.StatusOccupied

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantCode: 409,
			wantErr:  true,
		},
		{
			name: "maintenance room rejects transition",
			setupMock: func(repo *roommocks.MockRoom) {
				room := availableRoom()
				room.Status = model.StatusMaintenance

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantCode: 422,
			wantErr:  true,
		},
		{
			name: "unknown room",
			setupMock: func(repo *roommocks.MockRoom) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantCode: 404,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			err := svc.Block(context.Background(), "room-id-102", blockReq)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Unblock(t *testing.T) {
	t.Run("unblocks blocked room", func(t *testing.T) {
		svc, repo := newService(t)

		room := availableRoom()
		room.Status = model.StatusBlocked

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusAvailable, fields[model.FieldStatus])
				assert.Nil(t, fields[model.FieldBlockedUntil])
				assert.Nil(t, fields[model.FieldBlockReason])

				return nil
			})

		err := svc.Unblock(context.Background(), "room-id-102")

		assert.NoError(t, err)
	})

	t.Run("rejects room that is not blocked", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableRoom(), nil)

		err := svc.Unblock(context.Background(), "room-id-102")

		assert.True(t, failure.IsInvalidTransition(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("occupied room conflicts", func(t *testing.T) {
		svc, repo := newService(t)

		room := availableRoom()
		room.Status = model.StatusOccupied

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		err := svc.Delete(context.Background(), "room-id-102")

		assert.True(t, failure.IsConflict(err))
	})

	t.Run("deletes available room", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableRoom(), nil)

		repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(context.Background(), "room-id-102")

		assert.NoError(t, err)
	})
}
