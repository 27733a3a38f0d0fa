package repository

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/store"
)

type AppDataRepository interface {
	CurrentID(ctx context.Context) (int64, error)
	// NextID increments the persisted post counter and returns the new value.
	NextID(ctx context.Context) (int64, error)
}

type appDataRepository struct {
	s    store.Store
	name string
}

func NewAppDataRepository(s store.Store, name string) AppDataRepository {
	return &appDataRepository{s: s, name: name}
}

func (r *appDataRepository) load(ctx context.Context) (*models.AppData, error) {
	var data models.AppData
	if _, err := r.s.Load(ctx, r.name, &data); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &data, nil
}

func (r *appDataRepository) CurrentID(ctx context.Context) (int64, error) {
	data, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return data.PostsData.ConsecutiveID, nil
}

func (r *appDataRepository) NextID(ctx context.Context) (int64, error) {
	mu := lockFor(r.name)
	mu.Lock()
	defer mu.Unlock()

	data, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	data.PostsData.ConsecutiveID++
	if err := r.s.Save(ctx, r.name, data); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return data.PostsData.ConsecutiveID, nil
}
