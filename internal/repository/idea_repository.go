package repository

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/store"
)

type IdeaRepository interface {
	// Load returns nil when there is no raw idea document.
	Load(ctx context.Context) ([]models.Idea, error)
	Clear(ctx context.Context) error
}

type ideaRepository struct {
	s    store.Store
	name string
}

func NewIdeaRepository(s store.Store, name string) IdeaRepository {
	return &ideaRepository{s: s, name: name}
}

func (r *ideaRepository) Load(ctx context.Context) ([]models.Idea, error) {
	var c models.IdeaCollection
	found, err := r.s.Load(ctx, r.name, &c)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return c.Posts, nil
}

func (r *ideaRepository) Clear(ctx context.Context) error {
	return r.s.Save(ctx, r.name, models.IdeaCollection{Posts: []models.Idea{}})
}
