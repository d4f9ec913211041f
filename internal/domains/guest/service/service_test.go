package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	guestmocks "innkeep/internal/domains/guest/mocks"
	"innkeep/internal/domains/guest/model"
	"innkeep/internal/domains/guest/model/dto"
	"innkeep/internal/domains/guest/service"
	"innkeep/shared/cache"
	"innkeep/shared/failure"
)

type missCache struct{}

func (missCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (missCache) Get(_ context.Context, _ string, _ any) error        { return cache.CacheNil }
func (missCache) Delete(_ context.Context, _ string) error            { return nil }
func (missCache) Clear(_ context.Context, _ string) error             { return nil }

func newService(t *testing.T) (service.Guest, *guestmocks.MockGuest) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := guestmocks.NewMockGuest(ctrl)

	svc := service.New(repo, &config.Config{}, missCache{}, mocks.NewOtel())

	return svc, repo
}

func TestGuestService_Create(t *testing.T) {
	t.Run("returns the created guest", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, guest model.Guest) error {
				assert.NotEmpty(t, guest.ID)
				assert.Equal(t, "John Smith", guest.Name)

				return nil
			})

		res, err := svc.Create(context.Background(), dto.CreateGuestRequest{
			Name:  "John Smith",
			Phone: "+14155550100",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "John Smith", res.Name)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("insert failed"))

		_, err := svc.Create(context.Background(), dto.CreateGuestRequest{Name: "John Smith"})

		assert.Error(t, err)
	})
}

func TestGuestService_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Guest{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestGuestService_FindByName(t *testing.T) {
	t.Run("returns first partial match", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Guest{{ID: "guest-1", Name: "John Smith"}}, nil)

		res, err := svc.FindByName(context.Background(), "john")

		assert.NoError(t, err)
		assert.Equal(t, "guest-1", res.ID)
	})

	t.Run("no match", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Guest{}, nil)

		_, err := svc.FindByName(context.Background(), "nobody")

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestGuestService_Update(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Update(context.Background(), dto.UpdateGuestRequest{Phone: "+14155550111"}, "missing")

		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("updates existing guest", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "+14155550111", fields[model.FieldPhone])

				return nil
			})

		err := svc.Update(context.Background(), dto.UpdateGuestRequest{Phone: "+14155550111"}, "guest-1")

		assert.NoError(t, err)
	})
}
